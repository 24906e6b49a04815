package models

import (
	"archiroutes.org/internal/clock"
)

// ResponseModel is the base response structure shared by all API endpoints.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// NewResponse creates a standard response using the provided clock.
func NewResponse(code int, data interface{}, text string, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: c.Now().UnixMilli(),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

// NewOKResponse creates a successful response wrapping data.
func NewOKResponse(data interface{}, c clock.Clock) ResponseModel {
	return NewResponse(200, data, "OK", c)
}

// NewEntryResponse wraps a single entry.
func NewEntryResponse(entry interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"entry": entry,
	}
	return NewOKResponse(data, c)
}

// NewListResponse wraps a list of entries.
func NewListResponse(list interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
	}
	return NewOKResponse(data, c)
}
