package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "path"})

	StoreMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "store_mutations_total",
		Help:      "Total learner store mutations by store.",
	}, []string{"store"})

	StoreLoadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "store_load_failures_total",
		Help:      "Persisted documents that could not be read and fell back to the initial value.",
	}, []string{"key"})

	StoreSaveFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "store_save_failures_total",
		Help:      "Persisted document writes that were dropped.",
	}, []string{"key"})

	StoreSaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "store_save_duration_seconds",
		Help:      "Duration of synchronous persisted document writes.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "portal",
		Name:      "ws_clients",
		Help:      "Number of connected change feed clients.",
	})

	WSBroadcastDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "ws_broadcast_drops_total",
		Help:      "Change events skipped because the broadcast buffer was full.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		StoreMutationsTotal,
		StoreLoadFailuresTotal,
		StoreSaveFailuresTotal,
		StoreSaveDuration,
		WSClients,
		WSBroadcastDropsTotal,
	)
}
