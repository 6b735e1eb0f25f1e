package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(streamChunksTotal, rateLimitedTotal) }

var streamChunksTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sparlo_chat_stream_chunks_total",
		Help: "Decoded text chunks appended to assistant messages.",
	},
)

var rateLimitedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sparlo_chat_rate_limited_total",
		Help: "Chat sends rejected with a 429.",
	},
)

func IncStreamChunk() { streamChunksTotal.Inc() }

func IncRateLimited() { rateLimitedTotal.Inc() }
