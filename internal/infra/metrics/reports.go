package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(reportPollsTotal, navigationsTotal, clarificationsTotal) }

var reportPollsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sparlo_report_polls_total",
		Help: "Total report status reads, labeled by observed status.",
	},
	[]string{"status"}, // 'processing', 'clarifying', 'complete', 'error', 'failed'
)

var navigationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sparlo_navigations_total",
		Help: "One-shot navigation actions fired by the progress machine.",
	},
	[]string{"action"}, // 'navigate_home', 'navigate_report'
)

var clarificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sparlo_clarifications_total",
		Help: "Clarification answer submissions, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'error'
)

func IncReportPoll(status string) {
	reportPollsTotal.WithLabelValues(norm(status)).Inc()
}

func IncNavigation(action string) {
	navigationsTotal.WithLabelValues(norm(action)).Inc()
}

func IncClarification(outcome string) {
	clarificationsTotal.WithLabelValues(norm(outcome)).Inc()
}

// norm keeps label values lowercase and non-empty.
func norm(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "unknown"
	}
	return v
}
