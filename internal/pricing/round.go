package pricing

import "math"

// Round2 rounds an amount to two decimal places of the order currency.
// Every displayed monetary component goes through this exactly once; grand
// totals are summed unrounded first so rounding drift cannot accumulate.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
