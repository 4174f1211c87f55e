package activities

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/activity"

	"go-temporal-pricing/order-pricing/pricing"
	"go-temporal-pricing/order-pricing/types"
)

// PricingActivities exposes the pricing rules to workflows
type PricingActivities struct{}

// CalculateOrderTotal prices the requested items for a customer
func (a *PricingActivities) CalculateOrderTotal(ctx context.Context, req types.PricingRequest) (types.OrderSummary, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Calculating order total", "items", len(req.Items), "tier", req.User.LoyaltyTier, "state", req.User.State)

	var opts []pricing.Option
	if req.TaxRate != nil {
		opts = append(opts, pricing.WithTaxRate(*req.TaxRate))
	}

	summary, err := pricing.CalculateTotal(req.Items, req.User, opts...)
	if err != nil {
		logger.Error("Rejected pricing request", "error", err)
		return types.OrderSummary{}, err
	}

	logger.Info("Order total calculated",
		"subtotal", summary.Subtotal.StringFixed(2),
		"discount", summary.Discount.StringFixed(2),
		"tax", summary.Tax.StringFixed(2),
		"total", summary.Total.StringFixed(2))
	return summary, nil
}

// ApplyDiscount takes a whole-number percentage off an amount
func (a *PricingActivities) ApplyDiscount(ctx context.Context, amount decimal.Decimal, percent decimal.Decimal) (decimal.Decimal, error) {
	logger := activity.GetLogger(ctx)

	discounted := pricing.ApplyDiscount(amount, percent)

	logger.Info("Discount applied", "amount", amount.StringFixed(2), "percent", percent.String(), "result", discounted.StringFixed(2))
	return discounted, nil
}

// ValidateOrder checks an order total against a minimum
func (a *PricingActivities) ValidateOrder(ctx context.Context, total decimal.Decimal, minimum decimal.Decimal) (bool, error) {
	logger := activity.GetLogger(ctx)

	ok := pricing.MeetsMinimum(total, minimum)
	if !ok {
		logger.Warn("Order below minimum", "total", total.StringFixed(2), "minimum", minimum.StringFixed(2))
	}
	return ok, nil
}

// CustomerActivities contains customer-related activities
type CustomerActivities struct {
	profiles map[string]types.User
}

// NewCustomerActivities creates customer activities backed by a fixed directory
func NewCustomerActivities(profiles map[string]types.User) *CustomerActivities {
	return &CustomerActivities{profiles: profiles}
}

// FetchCustomerProfile fetches the loyalty tier and state of a customer
func (a *CustomerActivities) FetchCustomerProfile(ctx context.Context, customerID string) (types.User, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Fetching customer profile", "customerID", customerID)

	if customerID == "" {
		return types.User{}, &types.ValidationError{Msg: "customerID cannot be empty"}
	}

	user, ok := a.profiles[customerID]
	if !ok {
		return types.User{}, &types.PermanentError{Msg: fmt.Sprintf("unknown customer %s", customerID)}
	}

	logger.Info("Customer profile fetched", "tier", user.LoyaltyTier, "state", user.State)
	return user, nil
}
