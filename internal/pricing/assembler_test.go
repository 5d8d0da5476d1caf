package pricing

import (
	"math"
	"testing"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/models"
)

// tableConverter is a test converter over a fixed USD-based rate table.
type tableConverter map[string]float64

func (t tableConverter) Convert(amount float64, from, to string) (float64, bool) {
	if from == to {
		return amount, true
	}
	fromRate, okFrom := t[from]
	toRate, okTo := t[to]
	if !okFrom || !okTo {
		return amount, false
	}
	return Round2(amount / fromRate * toRate), true
}

func usdSettings(taxRules []models.TaxRule) models.FinancialSettings {
	return models.FinancialSettings{
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		TaxRules:       taxRules,
		PlatformFeeUSD: 1.95,
	}
}

func TestComputeOrderTotal_Consistency(t *testing.T) {
	calc := NewCalculator(usdSettings([]models.TaxRule{
		{Name: "State", Rate: 0.07, Base: models.TaxBaseSubtotal},
		{Name: "City", Rate: 0.02, Base: models.TaxBaseSubtotal},
	}), tableConverter{"USD": 1.00})

	taxes := ComputeTaxes(50.00, 4.99, calc.settings.TaxRules)
	got, err := calc.ComputeOrderTotal(50.00, taxes, 4.99, 5.00, 2.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Round2(got.Subtotal + got.TaxTotal + got.DeliveryFee + got.PlatformFee + got.Tip + got.DriverTip)
	if math.Abs(got.Total-want) > 1e-9 {
		t.Errorf("Total = %v, component sum = %v", got.Total, want)
	}
}

func TestComputeOrderTotal_PlatformFeeUSDAlwaysPresent(t *testing.T) {
	calc := NewCalculator(usdSettings(nil), tableConverter{"USD": 1.00})

	got, err := calc.ComputeOrderTotal(20.00, TaxResult{}, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PlatformFeeUSD != 1.95 {
		t.Errorf("PlatformFeeUSD = %v, want 1.95", got.PlatformFeeUSD)
	}
	// Identity conversion for a USD merchant.
	if got.PlatformFee != 1.95 {
		t.Errorf("PlatformFee = %v, want 1.95", got.PlatformFee)
	}
}

func TestComputeOrderTotal_PlatformFeeConverted(t *testing.T) {
	settings := usdSettings(nil)
	settings.CurrencyCode = "BRL"
	settings.CurrencySymbol = "R$"
	calc := NewCalculator(settings, tableConverter{"USD": 1.00, "BRL": 5.00})

	got, err := calc.ComputeOrderTotal(100.00, TaxResult{}, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PlatformFee != 9.75 {
		t.Errorf("PlatformFee = %v, want 9.75 (1.95 USD at 5.00)", got.PlatformFee)
	}
	if got.PlatformFeeUSD != 1.95 {
		t.Errorf("PlatformFeeUSD = %v, want 1.95", got.PlatformFeeUSD)
	}
	if got.Currency != "BRL" {
		t.Errorf("Currency = %q, want BRL", got.Currency)
	}
}

func TestComputeOrderTotal_MissingRateDegrades(t *testing.T) {
	settings := usdSettings(nil)
	settings.CurrencyCode = "XXX"
	calc := NewCalculator(settings, tableConverter{"USD": 1.00})

	got, err := calc.ComputeOrderTotal(10.00, TaxResult{}, 0, 0, 0)
	if err != nil {
		t.Fatalf("conversion failure must not error: %v", err)
	}

	// Fee shows the USD figure as-is and checkout still completes.
	if got.PlatformFee != 1.95 {
		t.Errorf("PlatformFee = %v, want unconverted 1.95", got.PlatformFee)
	}
	if len(got.Warnings) == 0 {
		t.Error("expected a missing-rate warning")
	}
	if got.Total != Round2(10.00+1.95) {
		t.Errorf("Total = %v, want 11.95", got.Total)
	}
}

func TestComputeOrderTotal_NegativeInputsRejected(t *testing.T) {
	calc := NewCalculator(usdSettings(nil), tableConverter{"USD": 1.00})

	tests := []struct {
		name                       string
		deliveryFee, tip, driverTip float64
	}{
		{"negative delivery fee", -1, 0, 0},
		{"negative tip", 0, -1, 0},
		{"negative driver tip", 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeOrderTotal(10.00, TaxResult{}, tt.deliveryFee, tt.tip, tt.driverTip)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if _, ok := apperrors.AsValidation(err); !ok {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestPriceCart_EmptyCart(t *testing.T) {
	settings := usdSettings([]models.TaxRule{
		{Name: "State", Rate: 0.07, Base: models.TaxBaseSubtotal},
	})
	settings.PlatformFeeUSD = 0
	calc := NewCalculator(settings, tableConverter{"USD": 1.00})

	got, err := calc.PriceCart(nil, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Subtotal != 0 || got.TaxTotal != 0 || got.Total != 0 {
		t.Errorf("empty cart: subtotal=%v tax=%v total=%v, want zeros", got.Subtotal, got.TaxTotal, got.Total)
	}
}

func TestPriceCart_FullPipeline(t *testing.T) {
	calc := NewCalculator(usdSettings([]models.TaxRule{
		{Name: "State", Rate: 0.07, Base: models.TaxBaseSubtotal},
		{Name: "City", Rate: 0.02, Base: models.TaxBaseSubtotal},
	}), tableConverter{"USD": 1.00})

	lines := []models.CartLine{
		{
			MenuItemID: "item_burger",
			BasePrice:  10.00,
			Quantity:   2,
			Selections: []models.OptionSelection{{ChoiceID: "extra-cheese"}},
			Rules: []models.ModifierRule{
				{ID: "r1", Kind: models.RuleAddition, Triggers: []string{"extra-cheese"}, Amount: 1.50, PerQuantity: true},
			},
		},
		{MenuItemID: "item_fries", BasePrice: 27.00, Quantity: 1},
	}

	got, err := calc.PriceCart(lines, 3.99, 5.00, 2.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Subtotal != 50.00 {
		t.Fatalf("Subtotal = %v, want 50.00", got.Subtotal)
	}
	if got.TaxTotal != 4.50 {
		t.Errorf("TaxTotal = %v, want 4.50", got.TaxTotal)
	}
	// 50.00 + 4.50 + 3.99 + 1.95 + 5.00 + 2.00
	if got.Total != 67.44 {
		t.Errorf("Total = %v, want 67.44", got.Total)
	}
}

func TestPriceCart_BadLineDoesNotBlockCheckout(t *testing.T) {
	calc := NewCalculator(usdSettings(nil), tableConverter{"USD": 1.00})

	lines := []models.CartLine{
		{MenuItemID: "ok", BasePrice: 5.00, Quantity: 1},
		{
			MenuItemID: "bad",
			BasePrice:  4.00,
			Quantity:   1,
			Selections: []models.OptionSelection{{ChoiceID: "a"}},
			Rules:      []models.ModifierRule{{ID: "bad", Kind: "bogus", Triggers: []string{"a"}}},
		},
	}

	got, err := calc.PriceCart(lines, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal != 9.00 {
		t.Errorf("Subtotal = %v, want 9.00 (bad line at base price)", got.Subtotal)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", got.Warnings)
	}
}
