package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/gqlgate/internal/gql/schemagen"
)

var (
	metricsOnce sync.Once

	gqlRequestsTotal   *prometheus.CounterVec
	gqlRequestDuration *prometheus.HistogramVec
)

// RegisterMetrics inicializa las métricas del gateway y registra un
// collector para el cache de schemas compilados. Devuelve el handler para
// /metrics.
func RegisterMetrics(registry prometheus.Registerer, cache *schemagen.Cache) http.Handler {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		gqlRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gqlgate_requests_total",
			Help: "Requests GraphQL procesados",
		}, []string{"status"})

		gqlRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gqlgate_request_duration_seconds",
			Help:    "Latencia del pipeline GraphQL",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"})

		registry.MustRegister(gqlRequestsTotal, gqlRequestDuration)

		if cache != nil {
			registry.MustRegister(
				prometheus.NewCounterFunc(prometheus.CounterOpts{
					Name: "gqlgate_schema_cache_hits_total",
					Help: "Hits del cache de schemas compilados",
				}, func() float64 { return float64(cache.Stats().Hits) }),
				prometheus.NewCounterFunc(prometheus.CounterOpts{
					Name: "gqlgate_schema_cache_misses_total",
					Help: "Misses del cache de schemas compilados",
				}, func() float64 { return float64(cache.Stats().Misses) }),
				prometheus.NewCounterFunc(prometheus.CounterOpts{
					Name: "gqlgate_schema_builds_total",
					Help: "Compilaciones reales de schema ejecutadas",
				}, func() float64 { return float64(cache.Stats().Builds) }),
				prometheus.NewGaugeFunc(prometheus.GaugeOpts{
					Name: "gqlgate_schema_cache_entries",
					Help: "Artefactos vivos en el cache de schemas",
				}, func() float64 { return float64(cache.Stats().Entries) }),
			)
		}
	})

	return promhttp.Handler()
}

// ObserveRequest registra una ejecución del pipeline.
func ObserveRequest(status int, d time.Duration) {
	if gqlRequestsTotal == nil {
		return
	}
	s := strconv.Itoa(status)
	gqlRequestsTotal.WithLabelValues(s).Inc()
	gqlRequestDuration.WithLabelValues(s).Observe(d.Seconds())
}
