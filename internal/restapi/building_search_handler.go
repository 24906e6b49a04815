package restapi

import (
	"net/http"

	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/models"
	"archiroutes.org/internal/utils"
)

// buildingSearchHandler serves the as-you-type duplicate probe. Inputs
// shorter than the minimum search length return an empty list rather than an
// error so clients can call it on every keystroke.
func (api *RestAPI) buildingSearchHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	input := queryParams.Get("input")
	if input == "" {
		fieldErrors := map[string][]string{
			"input": {"is required"},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	fieldErrors := make(map[string][]string)
	maxCount := utils.ParseIntParam(queryParams, "maxCount", dedupe.DefaultSearchLimit, fieldErrors)
	if maxCount <= 0 {
		fieldErrors["maxCount"] = []string{"must be greater than zero"}
	} else if maxCount > 50 {
		fieldErrors["maxCount"] = []string{"must not exceed 50"}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	matches := api.Dedupe.SearchSimilarBuildings(r.Context(), dedupe.SimilarQuery{
		Name:  input,
		City:  queryParams.Get("city"),
		Limit: maxCount,
	})

	api.sendResponse(w, r, models.NewListResponse(matches, api.Clock))
}
