package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cascadeRows *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		cascadeRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cascade",
			Name:      "rows_deleted_total",
			Help:      "Total number of rows removed by cascade deletes, by root node type.",
		}, []string{"node_type"}),
	}
})
