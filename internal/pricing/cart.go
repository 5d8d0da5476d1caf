package pricing

import "github.com/platewise/platewise-orders-service/internal/models"

// LineTotal prices one cart line using its frozen rule snapshot.
func LineTotal(line models.CartLine) ItemPrice {
	return ComputeItemPrice(line.BasePrice, line.Rules, line.Selections, line.Quantity)
}

// Subtotal sums extended prices across all lines. Each line is rounded to
// two decimals before summing, so the result does not depend on line order.
// Returned warnings aggregate the per-line rule warnings.
func Subtotal(lines []models.CartLine) (float64, []string) {
	var sum float64
	var warnings []string
	for _, line := range lines {
		priced := LineTotal(line)
		sum += priced.ExtendedPrice
		warnings = append(warnings, priced.Warnings...)
	}
	return Round2(sum), warnings
}

// ItemCount sums line quantities. It feeds UI badges and is never a
// pricing input.
func ItemCount(lines []models.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
