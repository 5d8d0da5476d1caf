package service

import (
	"context"

	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/models"
)

// SettingsProvider resolves the financial settings for a restaurant. Settings
// are tenant-scoped: currency, tax rules and the platform fee can all differ
// between restaurants.
type SettingsProvider interface {
	SettingsFor(ctx context.Context, restaurantID string) (models.FinancialSettings, error)
}

// StaticSettingsProvider serves the same config-derived settings to every
// restaurant. Deployments with per-tenant settings plug in their own provider.
type StaticSettingsProvider struct {
	settings models.FinancialSettings
}

var _ SettingsProvider = (*StaticSettingsProvider)(nil)

// NewStaticSettingsProvider builds a provider from the service defaults.
func NewStaticSettingsProvider(cfg config.PricingConfig) *StaticSettingsProvider {
	return &StaticSettingsProvider{
		settings: models.FinancialSettings{
			CurrencyCode:   cfg.CurrencyCode,
			CurrencySymbol: cfg.CurrencySymbol,
			PlatformFeeUSD: cfg.PlatformFeeUSD,
			TaxRules: []models.TaxRule{
				{Name: cfg.DefaultTaxName, Rate: cfg.DefaultTaxRate, Base: models.TaxBaseSubtotal},
			},
		},
	}
}

func (p *StaticSettingsProvider) SettingsFor(ctx context.Context, restaurantID string) (models.FinancialSettings, error) {
	return p.settings, nil
}
