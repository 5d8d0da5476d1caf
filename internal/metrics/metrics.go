package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartsPriced counts cart pricing computations by outcome.
	CartsPriced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "pricing",
		Name:      "carts_priced_total",
		Help:      "Number of cart pricing computations.",
	}, []string{"outcome"})

	// PricingWarnings counts recoverable pricing degradations by reason.
	PricingWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "pricing",
		Name:      "warnings_total",
		Help:      "Recoverable pricing warnings (malformed rules, missing rates).",
	}, []string{"reason"})

	// RateFallbacks counts uses of the static exchange-rate table.
	RateFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "currency",
		Name:      "rate_fallbacks_total",
		Help:      "Times the live rate source failed and the fallback table was used.",
	})

	// CacheHits counts cache hits by cache name.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Cache hits.",
	}, []string{"cache"})

	// CacheMisses counts cache misses by cache name.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Cache misses.",
	}, []string{"cache"})

	// OrdersCreated counts persisted orders by type.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platewise",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created at checkout.",
	}, []string{"order_type"})
)
