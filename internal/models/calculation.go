package models

// TaxLine is one displayed tax breakdown entry. Line order follows the
// merchant-configured rule order.
type TaxLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// OrderCalculation is the engine's output: every monetary component of an
// order, rounded to two decimal places of the order currency. It is a pure
// derived value recomputed on every cart change until checkout freezes it
// into the persisted order.
type OrderCalculation struct {
	Currency    string    `json:"currency"`
	Subtotal    float64   `json:"subtotal"`
	TaxLines    []TaxLine `json:"tax_lines"`
	TaxTotal    float64   `json:"tax_total"`
	DeliveryFee float64   `json:"delivery_fee"`

	// PlatformFee is the platform fee expressed in the order currency for
	// display. PlatformFeeUSD is the authoritative charge amount and is
	// present even when the order currency is USD.
	PlatformFee    float64 `json:"platform_fee"`
	PlatformFeeUSD float64 `json:"platform_fee_usd"`

	Tip       float64 `json:"tip"`
	DriverTip float64 `json:"driver_tip"`
	Total     float64 `json:"total"`

	// Warnings lists recoverable degradations (malformed rules, missing
	// exchange rates). They never block a calculation.
	Warnings []string `json:"warnings,omitempty"`
}
