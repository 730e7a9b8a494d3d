package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patientor/patientor/internal/domain/patient"
	"github.com/patientor/patientor/internal/state"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/patients/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/patients/:id", "200"))
	assert.Equal(t, float64(2), got)
}

func TestMiddleware_RecordsHTTPErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), httptest.NewRecorder())
	c.SetPath("/x")

	h := m.Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	})
	require.Error(t, h(c))

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/x", "404"))
	assert.Equal(t, float64(1), got)
}

func TestMiddleware_PlainErrorCountsAsServerError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), httptest.NewRecorder())
	c.SetPath("/x")

	h := m.Middleware()(func(c echo.Context) error {
		return errors.New("boom")
	})
	require.Error(t, h(c))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/x", "500")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/x", "200")))
}

func TestObserveStore_TracksCacheSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := state.NewStore(state.New(), zerolog.Nop())
	ObserveStore(reg, store)

	store.Dispatch(state.SetPatientList([]patient.Patient{{ID: "p1"}, {ID: "p2"}}))

	expected := `
# HELP patientor_cache_patients Patient summaries in the cache.
# TYPE patientor_cache_patients gauge
patientor_cache_patients 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "patientor_cache_patients")
	assert.NoError(t, err)
}

func TestHandler_ServesTextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.requests.WithLabelValues("GET", "/health", "200").Inc()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/metrics", nil), rec)
	require.NoError(t, Handler(reg)(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "patientor_http_requests_total")
}
