package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store metrics make the silent degradation paths visible to operators:
// the external API never surfaces a storage fault, so the counters are
// the only place a misbehaving blob backend shows up.
var (
	storeLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "she_store_loads_total",
		Help: "Event list loads by category and the source that served them.",
	}, []string{"category", "source"})

	storeSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "she_store_saves_total",
		Help: "Event list saves by category and outcome.",
	}, []string{"category", "outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "she_http_requests_total",
		Help: "API requests by handler, method and status code.",
	}, []string{"handler", "method", "code"})
)

// Load sources.
const (
	loadSourceBlob     = "blob"
	loadSourceSeed     = "seed"
	loadSourceFallback = "fallback"
)
