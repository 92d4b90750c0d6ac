package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbansense_gateway_cache_hits_total",
		Help: "Gateway cache lookups answered without an upstream call.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbansense_gateway_cache_misses_total",
		Help: "Gateway cache lookups that required an upstream call.",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbansense_gateway_cache_evictions_total",
		Help: "Entries evicted oldest-first after hitting the cache capacity.",
	})
	throttleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urbansense_gateway_throttle_wait_seconds",
		Help:    "Time spent queued behind the shared outbound throttle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urbansense_gateway_upstream_requests_total",
		Help: "Outbound provider requests by provider and outcome.",
	}, []string{"provider", "outcome"})
)
