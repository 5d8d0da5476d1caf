package pricing

import (
	"fmt"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/models"
)

// CurrencyConverter maps an amount between two currency codes. The second
// return value is false when a rate was missing and the amount came back
// unconverted.
type CurrencyConverter interface {
	Convert(amount float64, from, to string) (float64, bool)
}

// Calculator assembles full order calculations for one merchant. It is a
// pure value: merchant settings and the converter are injected, nothing is
// cached or mutated, so calculators may be used concurrently and per tenant.
type Calculator struct {
	settings  models.FinancialSettings
	converter CurrencyConverter
}

// NewCalculator creates a calculator for a merchant's financial settings.
func NewCalculator(settings models.FinancialSettings, converter CurrencyConverter) *Calculator {
	return &Calculator{settings: settings, converter: converter}
}

// PriceCart runs the full pipeline for a cart: line pricing, subtotal,
// taxes, fees and tips, producing the calculation checkout freezes into
// the order.
func (c *Calculator) PriceCart(lines []models.CartLine, deliveryFee, tip, driverTip float64) (*models.OrderCalculation, error) {
	subtotal, warnings := Subtotal(lines)
	taxes := ComputeTaxes(subtotal, deliveryFee, c.settings.TaxRules)

	calc, err := c.ComputeOrderTotal(subtotal, taxes, deliveryFee, tip, driverTip)
	if err != nil {
		return nil, err
	}
	calc.Warnings = append(warnings, calc.Warnings...)
	return calc, nil
}

// ComputeOrderTotal combines the pre-computed components into the final
// calculation. The platform fee is charged in USD and converted to the
// merchant currency for display; PlatformFeeUSD stays authoritative even
// when the merchant currency is USD.
//
// The grand total is summed from unrounded components and rounded exactly
// once, never by adding already-rounded lines.
func (c *Calculator) ComputeOrderTotal(subtotal float64, taxes TaxResult, deliveryFee, tip, driverTip float64) (*models.OrderCalculation, error) {
	if deliveryFee < 0 {
		return nil, apperrors.NewValidationError("delivery_fee", "delivery fee cannot be negative")
	}
	if tip < 0 {
		return nil, apperrors.NewValidationError("tip", "tip cannot be negative")
	}
	if driverTip < 0 {
		return nil, apperrors.NewValidationError("driver_tip", "driver tip cannot be negative")
	}

	var warnings []string

	feeUSD := c.settings.PlatformFeeUSD
	platformFee, ok := c.converter.Convert(feeUSD, "USD", c.settings.CurrencyCode)
	if !ok {
		// Degrade to showing the USD figure as-is rather than blocking
		// checkout.
		warnings = append(warnings, fmt.Sprintf(
			"no exchange rate for USD->%s, platform fee shown unconverted", c.settings.CurrencyCode))
	}

	total := Round2(subtotal + taxes.Total + deliveryFee + platformFee + tip + driverTip)

	return &models.OrderCalculation{
		Currency:       c.settings.CurrencyCode,
		Subtotal:       subtotal,
		TaxLines:       taxes.Lines,
		TaxTotal:       taxes.Total,
		DeliveryFee:    Round2(deliveryFee),
		PlatformFee:    platformFee,
		PlatformFeeUSD: feeUSD,
		Tip:            Round2(tip),
		DriverTip:      Round2(driverTip),
		Total:          total,
		Warnings:       warnings,
	}, nil
}
