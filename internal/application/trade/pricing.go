package trade

import (
	"fmt"

	"github.com/menswear/backend/internal/domain/trade"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// PricingFromConfig parses the shop's decimal settings
func PricingFromConfig(cfg config.ShopConfig) (trade.Pricing, error) {
	var p trade.Pricing
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"shop.tax_rate", cfg.TaxRate, &p.TaxRate},
		{"shop.shipping_flat", cfg.ShippingFlat, &p.ShippingFlat},
		{"shop.free_shipping_threshold", cfg.FreeShippingThreshold, &p.FreeShippingThreshold},
	}
	for _, f := range fields {
		if f.raw == "" {
			*f.dst = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return trade.Pricing{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if d.IsNegative() {
			return trade.Pricing{}, fmt.Errorf("%s cannot be negative", f.name)
		}
		*f.dst = d
	}
	return p, nil
}
