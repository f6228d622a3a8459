package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type PrometheusMetrics struct {
	syncTotal       *prometheus.CounterVec
	catalogTools    prometheus.Gauge
	recommendations *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	circuitOpen     *prometheus.GaugeVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		syncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliatehub_sync_total",
				Help: "Catalog sync attempts by source and result",
			},
			[]string{"source", "result"},
		),
		catalogTools: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "affiliatehub_catalog_tools",
				Help: "Number of tools in the current catalog",
			},
		),
		recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliatehub_recommendations_total",
				Help: "Concierge recommendation requests by provider and result",
			},
			[]string{"provider", "result"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affiliatehub_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "status"},
		),
		circuitOpen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "affiliatehub_circuit_open",
				Help: "1 while a circuit breaker rejects calls, 0 otherwise",
			},
			[]string{"breaker"},
		),
	}
}

func (p *PrometheusMetrics) ObserveSync(source string, err error) {
	p.syncTotal.WithLabelValues(source, result(err)).Inc()
}

func (p *PrometheusMetrics) SetCatalogSize(count int) {
	p.catalogTools.Set(float64(count))
}

func (p *PrometheusMetrics) ObserveRecommendation(provider string, err error) {
	p.recommendations.WithLabelValues(provider, result(err)).Inc()
}

func (p *PrometheusMetrics) ObserveHTTPRequest(route string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// SetCircuitState treats half-open as closed since calls are let through.
func (p *PrometheusMetrics) SetCircuitState(breaker, state string) {
	open := 0.0
	if state == "open" {
		open = 1
	}
	p.circuitOpen.WithLabelValues(breaker).Set(open)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
