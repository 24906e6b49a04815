package restapi

import (
	"errors"
	"net/http"

	"archiroutes.org/internal/models"
	"archiroutes.org/internal/routing"
)

// routeOptimizeHandler reorders intermediate waypoints for a shorter tour and
// builds the route through the optimized order. First and last points are
// never moved.
func (api *RestAPI) routeOptimizeHandler(w http.ResponseWriter, r *http.Request) {
	points, opts, ok := api.parseRouteRequest(w, r)
	if !ok {
		return
	}

	optimized, err := api.Routing.OptimizeRoute(r.Context(), points, opts)
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

	api.sendResponse(w, r, models.NewEntryResponse(optimized, api.Clock))
}
