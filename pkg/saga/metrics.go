package saga

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	runs          *prometheus.CounterVec
	compensations *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saga",
			Name:      "runs_total",
			Help:      "Total number of saga runs by outcome.",
		}, []string{"saga", "outcome"}),
		compensations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saga",
			Name:      "compensations_total",
			Help:      "Total number of compensating actions executed.",
		}, []string{"saga", "step", "result"}),
	}
})
