package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"archiroutes.org/internal/models"
	"archiroutes.org/internal/routing"
)

// routeRequest is the shared body of the route and route-optimize endpoints.
type routeRequest struct {
	Points []routing.Point `json:"points"`
	Mode   string          `json:"mode"`

	AvoidTolls   bool `json:"avoidTolls"`
	AvoidFerries bool `json:"avoidFerries"`
	PreferGreen  bool `json:"preferGreen"`
}

// parseRouteRequest decodes and validates the body shared by both routing
// endpoints. A nil return with no write means validation already responded.
func (api *RestAPI) parseRouteRequest(w http.ResponseWriter, r *http.Request) ([]routing.Point, routing.Options, bool) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"must be valid JSON"},
		})
		return nil, routing.Options{}, false
	}

	fieldErrors := make(map[string][]string)

	mode := routing.TransportMode(req.Mode)
	if req.Mode == "" {
		mode = routing.ModeWalking
	} else if !mode.Valid() {
		fieldErrors["mode"] = []string{"must be one of walking, cycling, driving, public_transport"}
	}

	if len(req.Points) < 2 {
		fieldErrors["points"] = []string{"at least 2 points are required"}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return nil, routing.Options{}, false
	}

	opts := routing.Options{
		Mode:         mode,
		AvoidTolls:   req.AvoidTolls,
		AvoidFerries: req.AvoidFerries,
		PreferGreen:  req.PreferGreen,
	}
	return req.Points, opts, true
}

// routeHandler builds a route through the posted points in order.
func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	points, opts, ok := api.parseRouteRequest(w, r)
	if !ok {
		return
	}

	result, err := api.Routing.BuildRoute(r.Context(), points, opts)
	if err != nil {
		if errors.Is(err, routing.ErrNotEnoughPoints) {
			api.validationErrorResponse(w, r, map[string][]string{
				"points": {"at least 2 points are required"},
			})
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(result, api.Clock))
}
