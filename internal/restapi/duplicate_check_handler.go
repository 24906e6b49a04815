package restapi

import (
	"net/http"

	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/models"
	"archiroutes.org/internal/utils"
)

// duplicateCheckHandler runs a full duplicate check for a proposed building
// submission. The check is fail-open: a catalog error yields an empty result,
// never a 500.
func (api *RestAPI) duplicateCheckHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	fieldErrors := make(map[string][]string)

	name := queryParams.Get("name")
	if name == "" {
		fieldErrors["name"] = append(fieldErrors["name"], "is required")
	}

	lat, _ := utils.ParseFloatParam(queryParams, "lat", fieldErrors)
	lon, _ := utils.ParseFloatParam(queryParams, "lon", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result := api.Dedupe.CheckBuildingDuplicates(r.Context(), dedupe.Query{
		Name: name,
		City: queryParams.Get("city"),
		Lat:  lat,
		Lon:  lon,
	})

	api.sendResponse(w, r, models.NewEntryResponse(result, api.Clock))
}
