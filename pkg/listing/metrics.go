package listing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultStale   = "stale"
)

type metrics struct {
	fetchTotal *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "fetch_total",
			Help:      "Total number of listing fetches by outcome (success, error, stale).",
		}, []string{"listing", "result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
