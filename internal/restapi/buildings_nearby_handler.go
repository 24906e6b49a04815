package restapi

import (
	"net/http"
	"strconv"

	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/models"
	"archiroutes.org/internal/utils"
)

// buildingsNearbyHandler lists active buildings within a radius of a point,
// closest first.
func (api *RestAPI) buildingsNearbyHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	fieldErrors := make(map[string][]string)

	lat, _ := utils.ParseFloatParam(queryParams, "lat", fieldErrors)
	lon, _ := utils.ParseFloatParam(queryParams, "lon", fieldErrors)

	radius := float64(dedupe.DefaultNearbyRadiusMeters)
	if radiusStr := queryParams.Get("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			fieldErrors["radius"] = append(fieldErrors["radius"], "must be a positive number")
		} else {
			radius = parsed
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	// Prefer the in-memory index; fall back to the store when none was built
	var nearby []dedupe.Candidate
	if api.SpatialIndex != nil {
		nearby = dedupe.CandidatesFromNearby(api.SpatialIndex.Nearby(lat, lon, radius))
	} else {
		nearby = api.Dedupe.FindNearbyBuildings(r.Context(), dedupe.NearbyQuery{
			Lat:          lat,
			Lon:          lon,
			RadiusMeters: radius,
		})
	}

	api.sendResponse(w, r, models.NewListResponse(nearby, api.Clock))
}
