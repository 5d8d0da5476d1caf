package models

// TaxBase selects what a tax rule applies to, configurable per merchant.
type TaxBase string

const (
	TaxBaseSubtotal         TaxBase = "subtotal"
	TaxBaseSubtotalDelivery TaxBase = "subtotal_delivery"
)

// TaxRule is one named tax line configured for a merchant. Multiple rules
// may apply at once (e.g. state + city); each produces its own line.
type TaxRule struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
	Base TaxBase `json:"base"`
}

// FinancialSettings is the merchant financial configuration consumed by the
// pricing engine. Owned by merchant configuration; read-only here.
type FinancialSettings struct {
	CurrencyCode   string    `json:"currency_code"`
	CurrencySymbol string    `json:"currency_symbol"`
	TaxRules       []TaxRule `json:"tax_rules"`

	// PlatformFeeUSD is the fixed per-order fee retained by the platform,
	// always denominated in USD regardless of the merchant currency.
	PlatformFeeUSD float64 `json:"platform_fee_usd"`
}
