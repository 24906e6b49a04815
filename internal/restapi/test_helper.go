package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"archiroutes.org/internal/app"
	"archiroutes.org/internal/appconf"
	"archiroutes.org/internal/catalogdb"
	"archiroutes.org/internal/clock"
	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/metrics"
	"archiroutes.org/internal/models"
	"archiroutes.org/internal/routing"
)

// testBuildings is the fixture catalog seeded into every test API. The first
// two sit about 275m apart in central Berlin, the third is in another city.
// The pending record is active but more than 400m from the Reichstag; the
// rejected record shares a name prefix with it to exercise moderation
// filtering in searches.
var testBuildings = []catalogdb.CreateBuildingParams{
	{ID: "b-reichstag", Name: "Reichstag", City: "Berlin", Address: "Platz der Republik 1", Lat: 52.5186, Lon: 13.3762, Status: models.StatusApproved},
	{ID: "b-brandenburg", Name: "Brandenburg Gate", City: "Berlin", Address: "Pariser Platz", Lat: 52.5163, Lon: 13.3777, Status: models.StatusApproved},
	{ID: "b-elbphil", Name: "Elbphilharmonie", City: "Hamburg", Address: "Platz der Deutschen Einheit 1", Lat: 53.5413, Lon: 9.9841, Status: models.StatusApproved},
	{ID: "b-pending", Name: "Pending Hall", City: "Berlin", Address: "Nowhere 1", Lat: 52.5210, Lon: 13.3820, Status: models.StatusPending},
	{ID: "b-rejected", Name: "Pending Annex", City: "Berlin", Address: "Nowhere 2", Lat: 52.4900, Lon: 13.4200, Status: models.StatusRejected},
}

// createTestApi builds a RestAPI over an in-memory catalog seeded with
// testBuildings. The routing service has no provider so routes fall back to
// straight lines.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	cfg := appconf.Config{
		Port:      4000,
		Env:       appconf.Test,
		ApiKeys:   []string{"TEST"},
		RateLimit: 1000,
	}

	catalog, err := catalogdb.NewClient(catalogdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })

	ctx := context.Background()
	for _, b := range testBuildings {
		_, err := catalog.Queries.CreateBuilding(ctx, b)
		require.NoError(t, err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	index := dedupe.NewSpatialIndex()
	require.NoError(t, index.Rebuild(ctx, catalog.Queries))

	coreApp := &app.Application{
		Config:       cfg,
		Logger:       logger,
		Clock:        clock.FixedClock{Time: time.UnixMilli(1723400000000)},
		Catalog:      catalog,
		Metrics:      m,
		Dedupe:       dedupe.NewService(catalog.Queries, logger, m),
		SpatialIndex: index,
		Routing:      routing.NewService(nil, nil, logger, m, routing.DefaultProviderTimeout),
	}

	api := NewRestAPI(coreApp)
	t.Cleanup(api.Shutdown)

	return api
}

// serveApiAndRetrieveEndpoint spins up a test server, issues a GET against
// the endpoint and decodes the standard response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var model models.ResponseModel
	err = json.Unmarshal(body, &model)
	require.NoError(t, err, "response body should decode into the standard envelope: %s", spew.Sdump(string(body)))

	return resp, model
}

// postJSON issues a POST with a JSON body against a running test server for
// the given API and decodes the envelope.
func postJSON(t *testing.T, api *RestAPI, endpoint string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+endpoint, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, respBody
}
