package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware(t *testing.T) {
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ocr_results/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ocr_results/1", "/ocr_results/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/ocr_results/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestObserveRelay(t *testing.T) {
	m := New()

	m.ObserveRelay("success", 120*time.Millisecond)
	m.ObserveRelay("success", 80*time.Millisecond)
	m.ObserveRelay("upstream_error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.relayTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayTotal.WithLabelValues("upstream_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.relayDuration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRelay("failed", time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `invoice_ocr_relay_requests_total{outcome="failed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
