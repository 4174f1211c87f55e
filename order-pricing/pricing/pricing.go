// Package pricing holds the order pricing rules: volume and loyalty discounts,
// state sales tax and the order minimum. All functions are pure and safe for
// concurrent use.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"go-temporal-pricing/order-pricing/types"
)

// VolumeThreshold is the total quantity at which the volume discount applies.
const VolumeThreshold = 10

var (
	volumeRate = decimal.RequireFromString("0.10")

	bronzeRate = decimal.RequireFromString("0.05")
	silverRate = decimal.RequireFromString("0.10")
	goldRate   = decimal.RequireFromString("0.15")

	defaultTaxRate    = decimal.RequireFromString("0.05")
	californiaTaxRate = decimal.RequireFromString("0.08")

	defaultMinimumOrder = decimal.RequireFromString("10.00")

	hundred = decimal.NewFromInt(100)
)

// VolumeRate returns the discount fraction applied once an order reaches VolumeThreshold items.
func VolumeRate() decimal.Decimal {
	return volumeRate
}

// DefaultMinimumOrder returns the minimum total used by ValidateOrder, 10.00.
func DefaultMinimumOrder() decimal.Decimal {
	return defaultMinimumOrder
}

// Option customises a CalculateTotal call
type Option func(*options)

type options struct {
	taxRate *decimal.Decimal
}

// WithTaxRate overrides the state-based tax rate. The rate is a fraction, 0.08 for 8%.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(o *options) {
		o.taxRate = &rate
	}
}

// TierRate returns the loyalty discount rate for a tier, zero for unknown tiers.
func TierRate(tier types.LoyaltyTier) decimal.Decimal {
	switch tier {
	case types.TierBronze:
		return bronzeRate
	case types.TierSilver:
		return silverRate
	case types.TierGold:
		return goldRate
	default:
		return decimal.Zero
	}
}

// StateTaxRate returns the default tax rate for a state: 0.08 for CA, 0.05 otherwise
func StateTaxRate(state string) decimal.Decimal {
	if state == "CA" {
		return californiaTaxRate
	}
	return defaultTaxRate
}

// CalculateTotal prices an order. Intermediate amounts stay unrounded; each
// output field is rounded to cents on its own.
func CalculateTotal(items []types.LineItem, user types.User, opts ...Option) (types.OrderSummary, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(items, user, o); err != nil {
		return types.OrderSummary{}, err
	}

	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totalItems += item.Quantity
	}

	volumeDiscount := decimal.Zero
	if totalItems >= VolumeThreshold {
		volumeDiscount = subtotal.Mul(volumeRate)
	}
	loyaltyDiscount := subtotal.Mul(TierRate(user.LoyaltyTier))
	discount := volumeDiscount.Add(loyaltyDiscount)

	taxRate := StateTaxRate(user.State)
	if o.taxRate != nil {
		taxRate = *o.taxRate
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate)
	total := subtotal.Sub(discount).Add(tax)

	return types.OrderSummary{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax.Round(2),
		Total:    total.Round(2),
	}, nil
}

func validate(items []types.LineItem, user types.User, o options) error {
	for i, item := range items {
		if item.Quantity < 0 {
			return &types.ValidationError{Msg: fmt.Sprintf("item %d: negative quantity %d", i, item.Quantity)}
		}
		if item.Price.IsNegative() {
			return &types.ValidationError{Msg: fmt.Sprintf("item %d: negative price %s", i, item.Price)}
		}
	}
	if user.State == "" && o.taxRate == nil {
		return &types.ValidationError{Msg: "user state is required without a tax rate override"}
	}
	return nil
}

// ApplyDiscount takes percent (10 means 10%) off amount and rounds to cents.
// Percentages outside 0..100 are not rejected.
func ApplyDiscount(amount, percent decimal.Decimal) decimal.Decimal {
	discount := amount.Mul(percent.Div(hundred))
	return amount.Sub(discount).Round(2)
}

// ValidateOrder reports whether total reaches the default 10.00 minimum
func ValidateOrder(total decimal.Decimal) bool {
	return MeetsMinimum(total, defaultMinimumOrder)
}

// MeetsMinimum reports whether total >= minimum. No rounding is applied.
func MeetsMinimum(total, minimum decimal.Decimal) bool {
	return total.GreaterThanOrEqual(minimum)
}
