package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "menswear",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Cache lookups by namespace and result",
	},
	[]string{"namespace", "result"},
)

func recordLookup(key, result string) {
	cacheRequests.WithLabelValues(namespaceOf(key), result).Inc()
}
