package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	transitions *prometheus.CounterVec
	preemptions prometheus.Counter
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duty",
			Name:      "transitions_total",
			Help:      "Total number of duty transitions, by transition.",
		}, []string{"transition"}),
		preemptions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "duty",
			Name:      "preemptions_total",
			Help:      "Total number of open duty intervals closed by another user taking the same duty.",
		}),
	}
})
