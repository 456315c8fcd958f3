package trade

import "github.com/shopspring/decimal"

// Pricing holds the store-wide rules used to total an order
type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFlat          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// TaxFor returns tax on the subtotal rounded to cents
func (p Pricing) TaxFor(subtotal decimal.Decimal) decimal.Decimal {
	if p.TaxRate.IsZero() {
		return decimal.Zero
	}
	return subtotal.Mul(p.TaxRate).Round(2)
}

// ShippingFor returns the flat fee, or zero once the subtotal reaches the free threshold
func (p Pricing) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	if p.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFlat
}
