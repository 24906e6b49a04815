package models

import "time"

// CurrentTimeData is the payload of the current-time endpoint.
type CurrentTimeData struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
	}
}
