package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/observability"
	"github.com/mr1hm/go-neo-impact/internal/resolver"
)

// mockResolver records what it was asked and replays a canned result.
type mockResolver struct {
	mu         sync.Mutex
	identifier string
	credential string
	result     resolver.Result
}

func (m *mockResolver) Resolve(ctx context.Context, identifier, credential string) resolver.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identifier = identifier
	m.credential = credential
	return m.result
}

func catalogResult(id string) resolver.Result {
	d := 16840.0
	return resolver.Result{
		Record: models.NEORecord{
			ID:                    id,
			Name:                  "433 Eros (A898 PA)",
			EstimatedDiameterMaxM: &d,
			EstimatedDiameterM:    &d,
			DensityKgM3:           models.DefaultDensityKgM3,
			Source:                models.SourceCatalog,
		},
		Status: http.StatusOK,
	}
}

func setupTestRouter(res Resolver, envCredentials ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(res, envCredentials, observability.NewMetricsForTesting())
	handler.RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetNEO_ReturnsRecord(t *testing.T) {
	res := &mockResolver{result: catalogResult("2000433")}
	router := setupTestRouter(res, "env-key")

	w := doRequest(router, http.MethodGet, "/neo/433", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "433 Eros (A898 PA)", got["name"])
	assert.Equal(t, "catalog", got["source"])
	assert.Equal(t, 16840.0, got["estimated_diameter_max_m"])
	assert.Nil(t, got["miss_distance_km"])
	assert.Contains(t, got, "miss_distance_km")

	assert.Equal(t, "433", res.identifier)
	assert.Equal(t, "env-key", res.credential)
}

func TestGetNEO_CredentialPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		env    []string
		want   string
	}{
		{"query wins", "/neo/433?api_key=query-key", "header-key", []string{"env-a", "env-b"}, "query-key"},
		{"header beats env", "/neo/433", "header-key", []string{"env-a", "env-b"}, "header-key"},
		{"first env var", "/neo/433", "", []string{"env-a", "env-b"}, "env-a"},
		{"second env var", "/neo/433", "", []string{"", "env-b"}, "env-b"},
		{"blank query ignored", "/neo/433?api_key=%20", "header-key", nil, "header-key"},
		{"nothing configured", "/neo/433", "", []string{"", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &mockResolver{result: catalogResult("2000433")}
			router := setupTestRouter(res, tt.env...)

			header := http.Header{}
			if tt.header != "" {
				header.Set(APIKeyHeader, tt.header)
			}
			doRequest(router, http.MethodGet, tt.path, "", header)

			assert.Equal(t, tt.want, res.credential)
		})
	}
}

func TestGetNEO_MirrorsUpstreamStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusTooManyRequests, http.StatusBadGateway} {
		res := &mockResolver{result: resolver.Result{
			Record: resolver.Synthetic("433", "catalog request failed", status),
			Status: status,
		}}
		router := setupTestRouter(res, "env-key")

		w := doRequest(router, http.MethodGet, "/neo/433", "", nil)
		assert.Equal(t, status, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "synthetic", got["source"])
		assert.Equal(t, "433", got["requested_id"])
		assert.NotEmpty(t, got["message"])
	}
}

func TestGetNEO_NoCredentialServesSynthetic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// The fetcher is never consulted without a credential.
	res := resolver.New(nil, observability.NewMetricsForTesting(), logger)
	router := setupTestRouter(res)

	w := doRequest(router, http.MethodGet, "/neo/3542519", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "synthetic", got["source"])
	assert.Equal(t, "3542519", got["requested_id"])
	assert.Contains(t, got["message"], "NASA_API_KEY")
}

func simulate(t *testing.T, router *gin.Engine, body string) (int, map[string]any) {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/simulate-impact", body, http.Header{"Content-Type": {"application/json"}})

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return w.Code, got
}

func TestSimulateImpact_ReferenceImpactor(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	code, got := simulate(t, router, `{"diameter": 180, "velocity": 21, "density": 2800, "delta_v": 0}`)
	require.Equal(t, http.StatusOK, code)

	for _, key := range []string{"kinetic_energy_j", "tnt_equivalent_tons", "crater_diameter_m", "seismic_magnitude_mw"} {
		v, ok := got[key].(float64)
		require.True(t, ok, "missing %s", key)
		assert.Positive(t, v, key)
	}
	assert.InEpsilon(t, 1.8853099638e18, got["kinetic_energy_j"], 1e-9)
	assert.NotContains(t, got, "crater_footprint")
}

func TestSimulateImpact_Defaults(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	for _, body := range []string{"", "{}", `{"diameter": null}`} {
		code, got := simulate(t, router, body)
		require.Equal(t, http.StatusOK, code, "body %q", body)
		assert.InEpsilon(t, 3.14159265359e17, got["kinetic_energy_j"], 1e-9, "body %q", body)
	}
}

func TestSimulateImpact_NumericStrings(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	code, got := simulate(t, router, `{"diameter": "180", "velocity": " 21 ", "density": "2800"}`)
	require.Equal(t, http.StatusOK, code)
	assert.InEpsilon(t, 1.8853099638e18, got["kinetic_energy_j"], 1e-9)
}

func TestSimulateImpact_ClampsVelocity(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	code, got := simulate(t, router, `{"velocity": 20, "delta_v": 30}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.1, got["impact_velocity_kms"])
	assert.Positive(t, got["kinetic_energy_j"])
}

func TestSimulateImpact_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"diameter": `},
		{"trailing data", `{"diameter": 1} junk`},
		{"two objects", `{"diameter": 1} {"velocity": 2}`},
		{"not an object", `[180, 21]`},
		{"non-numeric string", `{"diameter": "large"}`},
		{"boolean", `{"velocity": true}`},
		{"zero diameter", `{"diameter": 0}`},
		{"negative density", `{"density": -3000}`},
		{"negative delta_v", `{"delta_v": -1}`},
		{"lat without lng", `{"lat": 10}`},
		{"lat out of range", `{"lat": 95, "lng": 10}`},
		{"non-numeric lng", `{"lat": 10, "lng": "east"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(&mockResolver{})

			code, got := simulate(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestSimulateImpact_RejectsOversizedBody(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	body := `{"diameter": 180, "note": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	code, got := simulate(t, router, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.NotEmpty(t, got["error"])
}

func TestSimulateImpact_CraterFootprint(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	code, got := simulate(t, router, `{"diameter": 180, "velocity": 21, "density": 2800, "lat": 35.0, "lng": 139.0}`)
	require.Equal(t, http.StatusOK, code)

	raw, err := json.Marshal(got["crater_footprint"])
	require.NoError(t, err)

	var f Feature
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Polygon", f.Geometry.Type)
	require.Len(t, f.Geometry.Coordinates, 1)

	ring := f.Geometry.Coordinates[0]
	require.Len(t, ring, 37)
	assert.Equal(t, ring[0], ring[36])
	assert.Equal(t, got["crater_diameter_m"], f.Properties["crater_diameter_m"])
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	w := doRequest(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(&mockResolver{})

	w := doRequest(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// statusFetcher fails every lookup with a fixed upstream status.
type statusFetcher struct {
	status int
}

func (f statusFetcher) Fetch(ctx context.Context, id, credential string) (models.NEORecord, error) {
	return models.NEORecord{}, &models.UpstreamError{StatusCode: f.status, Err: errors.New("unexpected status code")}
}

func TestGetNEO_SuccessStatusFromFailedLookupStillHasBody(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolver.New(statusFetcher{status: http.StatusNoContent}, observability.NewMetricsForTesting(), logger)
	router := setupTestRouter(res, "env-key")

	w := doRequest(router, http.MethodGet, "/neo/3542519", "", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "synthetic", got["source"])
	assert.Equal(t, "3542519", got["requested_id"])
	assert.NotEmpty(t, got["message"])
}
