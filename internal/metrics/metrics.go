package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adforge_generation_calls_total",
		Help: "Total external generation calls, labelled by operation.",
	}, []string{"operation"})

	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adforge_generation_failures_total",
		Help: "Total failed external generation calls, labelled by operation.",
	}, []string{"operation"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adforge_generation_duration_seconds",
		Help:    "External generation call latency.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"operation"})

	NodesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adforge_nodes_created_total",
		Help: "Total nodes inserted into the strategy tree.",
	})

	NodesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adforge_nodes_deleted_total",
		Help: "Total nodes removed by subtree deletion or reset.",
	})

	ImagesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adforge_images_generated_total",
		Help: "Total concept images produced.",
	})

	BusyRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adforge_busy_rejections_total",
		Help: "Operations rejected because another one was in flight.",
	})
)
