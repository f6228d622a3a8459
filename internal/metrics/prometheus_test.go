package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.ObserveSync("notion", nil)
	m.ObserveSync("notion", errors.New("boom"))
	m.ObserveSync("notion", errors.New("boom"))
	m.SetCatalogSize(12)
	m.ObserveRecommendation("gemini", nil)
	m.ObserveHTTPRequest("/api/tools", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncTotal.WithLabelValues("notion", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncTotal.WithLabelValues("notion", "error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.catalogTools))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendations.WithLabelValues("gemini", "success")))

	m.SetCircuitState("generation", "open")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitOpen.WithLabelValues("generation")))
	m.SetCircuitState("generation", "half_open")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.circuitOpen.WithLabelValues("generation")))

	count, err := testutil.GatherAndCount(reg, "affiliatehub_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
