package currency

import (
	"math"
)

// fallbackRates is the static table used whenever no live rates are
// available. Rates are units of currency per 1 USD.
var fallbackRates = map[string]float64{
	"USD": 1.00,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"AUD": 1.52,
	"BRL": 5.00,
	"MXN": 17.05,
	"INR": 83.10,
	"JPY": 149.50,
	"SGD": 1.34,
	"NZD": 1.66,
}

// FallbackRates returns a copy of the static rate table.
func FallbackRates() map[string]float64 {
	rates := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	return rates
}

// Converter maps amounts between currencies via a USD-pivot rate table.
// It is stateless apart from the immutable table it was built with.
type Converter struct {
	rates map[string]float64
}

// NewConverter creates a converter over the given USD-based rate table.
// A nil table means the static fallback.
func NewConverter(rates map[string]float64) *Converter {
	if rates == nil {
		rates = FallbackRates()
	}
	return &Converter{rates: rates}
}

// Convert maps amount from one currency code to another. Same-currency
// conversion is the identity and needs no table lookup. A missing or
// non-positive rate for either side returns the amount unchanged with
// ok=false; conversion failure degrades, it never errors.
func (c *Converter) Convert(amount float64, from, to string) (float64, bool) {
	if from == to {
		return amount, true
	}

	fromRate, okFrom := c.rates[from]
	toRate, okTo := c.rates[to]
	if !okFrom || !okTo || fromRate <= 0 || toRate <= 0 {
		return amount, false
	}

	usd := amount / fromRate
	return math.Round(usd*toRate*100) / 100, true
}
