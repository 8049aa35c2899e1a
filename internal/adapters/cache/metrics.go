package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheRequestsTotal обращения к кешу по имени кеша и результату
	cacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Result cache lookups by cache name and result (hit, miss, error)",
		},
		[]string{"cache", "result"},
	)
)

func recordHit(name string)   { cacheRequestsTotal.WithLabelValues(name, "hit").Inc() }
func recordMiss(name string)  { cacheRequestsTotal.WithLabelValues(name, "miss").Inc() }
func recordError(name string) { cacheRequestsTotal.WithLabelValues(name, "error").Inc() }
