package pricing

import (
	"math"

	"github.com/platewise/platewise-orders-service/internal/models"
)

// TaxResult is the ordered tax breakdown for an order.
type TaxResult struct {
	Lines []models.TaxLine
	Total float64
}

// ComputeTaxes applies each merchant tax rule against its configured base
// and returns the breakdown in rule order.
//
// The total is rounded from the sum of the unrounded products, not from the
// already-rounded display lines. When the rounded lines disagree with that
// total by a cent, the last line absorbs the difference so the visible
// breakdown always sums to the displayed total.
func ComputeTaxes(subtotal, deliveryFee float64, rules []models.TaxRule) TaxResult {
	if len(rules) == 0 {
		return TaxResult{Lines: []models.TaxLine{}, Total: 0}
	}

	lines := make([]models.TaxLine, 0, len(rules))
	var rawSum, roundedSum float64

	for _, rule := range rules {
		base := subtotal
		if rule.Base == models.TaxBaseSubtotalDelivery {
			base += deliveryFee
		}
		raw := base * rule.Rate
		amount := Round2(raw)

		rawSum += raw
		roundedSum += amount
		lines = append(lines, models.TaxLine{Name: rule.Name, Amount: amount})
	}

	total := Round2(rawSum)

	if drift := Round2(total - roundedSum); math.Abs(drift) >= 0.005 {
		last := len(lines) - 1
		lines[last].Amount = Round2(lines[last].Amount + drift)
	}

	return TaxResult{Lines: lines, Total: total}
}
