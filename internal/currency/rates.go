package currency

import (
	"context"
	"time"

	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/metrics"
)

// RateSource fetches a live USD-based rate table.
type RateSource interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// LoadRates fetches live rates with a bounded timeout. Pricing must never
// block on the rate fetch: on timeout, fetch error or an empty table the
// static fallback is returned synchronously.
func LoadRates(ctx context.Context, source RateSource, timeout time.Duration, logger *logging.LoggerV2) map[string]float64 {
	if source == nil {
		return FallbackRates()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rates, err := source.FetchRates(fetchCtx)
	if err != nil || len(rates) == 0 {
		metrics.RateFallbacks.Inc()
		if logger != nil {
			fields := logging.Fields{}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.Warn("Live rate fetch failed, using fallback table", fields)
		}
		return FallbackRates()
	}

	// The pivot currency must be present for USD-based conversion.
	if _, ok := rates["USD"]; !ok {
		rates["USD"] = 1.00
	}

	return rates
}
