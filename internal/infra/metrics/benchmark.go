package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(runDurationSeconds, benchmarkVerdictsTotal) }

var runDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sparlo_benchmark_run_duration_seconds",
		Help:    "Wall-clock duration of one side of a benchmark case.",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200, 2100},
	},
	[]string{"side", "status"}, // side: 'sparlo', 'baseline'
)

var benchmarkVerdictsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sparlo_benchmark_verdicts_total",
		Help: "Evaluator verdicts, labeled by winner.",
	},
	[]string{"winner"}, // 'sparlo', 'baseline', 'tie'
)

func ObserveRunDuration(side, status string, seconds float64) {
	runDurationSeconds.WithLabelValues(norm(side), norm(status)).Observe(seconds)
}

func IncBenchmarkVerdict(winner string) {
	benchmarkVerdictsTotal.WithLabelValues(norm(winner)).Inc()
}
