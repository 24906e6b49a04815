package restapi

import (
	"encoding/json"
	"net/http"

	"archiroutes.org/internal/models"
)

// sendResponse writes a ResponseModel as JSON using the status code embedded
// in the model.
func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// serverErrorResponse logs the error and writes a generic 500 envelope. The
// underlying error never reaches the client.
func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.Logger.Error("internal server error", "error", err, "method", r.Method, "path", r.URL.Path)

	response := models.NewResponse(http.StatusInternalServerError, nil, "internal server error", api.Clock)
	api.sendResponse(w, r, response)
}

// validationErrorResponse writes a 400 response listing per-field problems.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	payload := map[string]interface{}{
		"fieldErrors": fieldErrors,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		api.Logger.Error("failed to encode validation response", "error", err, "path", r.URL.Path)
	}
}

func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	response := models.NewResponse(http.StatusUnauthorized, nil, "permission denied", api.Clock)
	api.sendResponse(w, r, response)
}
