package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/travel-bucket/internal/config"
	"github.com/deppfellow/travel-bucket/internal/errs"
	"github.com/deppfellow/travel-bucket/internal/handler"
	"github.com/deppfellow/travel-bucket/internal/model"
	"github.com/deppfellow/travel-bucket/internal/repository"
	"github.com/deppfellow/travel-bucket/internal/server"
	"github.com/deppfellow/travel-bucket/internal/service"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Database:      config.DatabaseConfig{Driver: config.DriverMemory},
		Observability: config.DefaultObservabilityConfig(),
	}
	logger := zerolog.Nop()

	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)

	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPlacesScenario(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/places", `{"destination":"Goa","country":"India","notes":"Beaches"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.TravelPlace](t, rec)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, model.VisitedNo, created.Visited)

	rec = do(t, e, http.MethodGet, "/api/v1/places/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Goa", decode[model.TravelPlace](t, rec).Destination)

	rec = do(t, e, http.MethodPut, "/api/v1/places/1", `{"id":99,"destination":"Goa Beach","country":"India","visited":"YES"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.TravelPlace](t, rec)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Goa Beach", updated.Destination)
	assert.Equal(t, model.VisitedYes, updated.Visited)

	rec = do(t, e, http.MethodDelete, "/api/v1/places/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/v1/places/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PLACE_NOT_FOUND", decode[errs.HTTPError](t, rec).Code)

	rec = do(t, e, http.MethodGet, "/api/v1/places", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDeleteUnknownIsNoContent(t *testing.T) {
	e := newTestRouter(t)

	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/api/v1/places/42", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/api/v1/places/42", "").Code)
}

func TestUpdateUnknownIsNotFound(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPut, "/api/v1/places/5", `{"destination":"Kyoto","country":"Japan"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/places", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateValidation(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/places", `{"country":"India","visited":"maybe"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	fields := map[string]string{}
	for _, fe := range body.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", fields["destination"])
	assert.Equal(t, "must be one of: YES NO", fields["visited"])

	rec = do(t, e, http.MethodPost, "/api/v1/places", `{"destination":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/places/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTravelRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/travel/add", `{"destination":"Lisbon","country":"Portugal"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.TravelPlace](t, rec)

	rec = do(t, e, http.MethodPut, "/api/v1/travel/update", `{"id":1,"destination":"Lisbon","country":"Portugal","visited":"YES"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.VisitedYes, decode[model.TravelPlace](t, rec).Visited)

	rec = do(t, e, http.MethodPut, "/api/v1/travel/update", `{"destination":"Lisbon","country":"Portugal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/travel/get/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[model.TravelPlace](t, rec).ID)

	rec = do(t, e, http.MethodGet, "/api/v1/travel/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.TravelPlace](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/api/v1/travel/delete/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/api/v1/travel/get/1", "").Code)
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[handler.HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, config.DriverMemory, health.Driver)
	assert.Empty(t, health.Checks)

	rec = do(t, e, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(t, e, http.MethodGet, "/static/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/api/v1/places"`)

	do(t, e, http.MethodGet, "/api/v1/places", "")
	rec = do(t, e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `travel_bucket_place_store_operations_total{operation="list",outcome="success"} 1`)
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
