package restapi

import (
	"encoding/json"
	"net/http"
)

// healthHandler reports process liveness and catalog reachability.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if api.Catalog != nil {
		if err := api.Catalog.DB.PingContext(r.Context()); err != nil {
			api.Logger.Error("health check failed", "error", err)
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
