package workflows

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"go-temporal-pricing/order-pricing/pricing"
	"go-temporal-pricing/order-pricing/types"
)

// QuoteTTL is how long a quote waits for confirmation
const QuoteTTL = 15 * time.Minute

const (
	QueryQuote     = "get-quote"
	QueryItems     = "get-items"
	SignalConfirm  = "confirm-quote"
	SignalCancel   = "cancel-quote"
	SignalAddItem  = "add-line-item"
)

// Quote stages, in the order a quote moves through them
const (
	StageStart                = "start"
	StageProfile              = "profile"
	StagePricing              = "pricing"
	StageAwaitingConfirmation = "awaiting-confirmation"
	StageConfirmed            = "confirmed"
	StageCancelled            = "cancelled"
	StageExpired              = "expired"
)

// QuoteOrderWorkflow prices an order for a customer and holds the quote open
// until it is confirmed, cancelled or expires. Items added by signal are
// re-priced immediately. A quote below the order minimum cannot be confirmed.
func QuoteOrderWorkflow(ctx workflow.Context, req types.QuoteRequest) (*types.Quote, error) {
	logger := workflow.GetLogger(ctx)

	minimum := pricing.DefaultMinimumOrder()
	if req.Minimum != nil {
		minimum = *req.Minimum
	}

	quote := types.Quote{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Stage:      StageStart,
		Items:      req.Items,
		Minimum:    minimum,
	}

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:        1 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        5,
		NonRetryableErrorTypes: []string{"PermanentError", "ValidationError"},
	}

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         retryPolicy,
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	err := workflow.SetQueryHandler(ctx, QueryQuote, func() (types.Quote, error) {
		return quote, nil
	})
	if err != nil {
		return nil, err
	}

	err = workflow.SetQueryHandler(ctx, QueryItems, func() ([]types.LineItem, error) {
		return quote.Items, nil
	})
	if err != nil {
		return nil, err
	}

	sigConfirm := workflow.GetSignalChannel(ctx, SignalConfirm)
	sigCancel := workflow.GetSignalChannel(ctx, SignalCancel)
	sigAddItem := workflow.GetSignalChannel(ctx, SignalAddItem)

	quote.Stage = StageProfile
	err = workflow.ExecuteActivity(ctx, "FetchCustomerProfile", req.CustomerID).Get(ctx, &quote.Customer)
	if err != nil {
		quote.LastError = fmt.Sprintf("profile lookup failed: %v", err)
		return nil, err
	}

	quote.Stage = StagePricing
	if err := priceQuote(ctx, &quote, quote.Items, req); err != nil {
		quote.LastError = fmt.Sprintf("pricing failed: %v", err)
		return nil, err
	}
	logger.Info("Quote priced", "orderID", req.OrderID, "total", quote.Summary.Total.StringFixed(2), "meetsMinimum", quote.MeetsMinimum)

	quote.Stage = StageAwaitingConfirmation
	quote.ExpiresAt = workflow.Now(ctx).Add(QuoteTTL)

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	defer cancelTimer()
	timerFut := workflow.NewTimer(timerCtx, QuoteTTL)
	expired := false

	selector := workflow.NewSelector(ctx)

	selector.AddReceive(sigConfirm, func(ch workflow.ReceiveChannel, more bool) {
		var payload types.ConfirmRequest
		ch.Receive(ctx, &payload)
		if !quote.MeetsMinimum {
			quote.LastError = fmt.Sprintf("total %s is below minimum %s", quote.Summary.Total.StringFixed(2), quote.Minimum.StringFixed(2))
			logger.Warn("Confirmation ignored", "by", payload.ConfirmedBy, "reason", quote.LastError)
			return
		}
		quote.Confirmed = true
		logger.Info("Confirmation received", "by", payload.ConfirmedBy)
	})

	selector.AddReceive(sigCancel, func(ch workflow.ReceiveChannel, more bool) {
		var payload types.CancelRequest
		ch.Receive(ctx, &payload)
		quote.Cancelled = true
		quote.LastError = fmt.Sprintf("cancelled: %s", payload.Reason)
		logger.Info("Cancellation received", "reason", payload.Reason)
	})

	selector.AddReceive(sigAddItem, func(ch workflow.ReceiveChannel, more bool) {
		var item types.LineItem
		ch.Receive(ctx, &item)

		items := make([]types.LineItem, 0, len(quote.Items)+1)
		items = append(items, quote.Items...)
		items = append(items, item)

		if err := priceQuote(ctx, &quote, items, req); err != nil {
			quote.LastError = fmt.Sprintf("item %s rejected: %v", item.SKU, err)
			logger.Warn("Item rejected", "sku", item.SKU, "error", err)
			return
		}
		logger.Info("Item added", "sku", item.SKU, "qty", item.Quantity, "total", quote.Summary.Total.StringFixed(2))
	})

	selector.AddFuture(timerFut, func(f workflow.Future) {
		expired = true
		quote.LastError = "quote expired"
		logger.Warn("Quote expired", "orderID", req.OrderID)
	})

	for !quote.Confirmed && !quote.Cancelled && !expired {
		selector.Select(ctx)
	}

	switch {
	case quote.Confirmed:
		quote.Stage = StageConfirmed
	case quote.Cancelled:
		quote.Stage = StageCancelled
	default:
		quote.Stage = StageExpired
	}

	logger.Info("Workflow completed", "orderID", req.OrderID, "stage", quote.Stage)
	return &quote, nil
}

// priceQuote runs the pricing activities for items and stores the outcome on
// quote. quote is left untouched when any activity fails.
func priceQuote(ctx workflow.Context, quote *types.Quote, items []types.LineItem, req types.QuoteRequest) error {
	var summary types.OrderSummary
	err := workflow.ExecuteActivity(ctx, "CalculateOrderTotal", types.PricingRequest{
		Items:   items,
		User:    quote.Customer,
		TaxRate: req.TaxRate,
	}).Get(ctx, &summary)
	if err != nil {
		return err
	}

	var meetsMinimum bool
	err = workflow.ExecuteActivity(ctx, "ValidateOrder", summary.Total, quote.Minimum).Get(ctx, &meetsMinimum)
	if err != nil {
		return err
	}

	var promoTotal *decimal.Decimal
	if req.PromoPercent != nil {
		var discounted decimal.Decimal
		err = workflow.ExecuteActivity(ctx, "ApplyDiscount", summary.Total, *req.PromoPercent).Get(ctx, &discounted)
		if err != nil {
			return err
		}
		promoTotal = &discounted
	}

	quote.Items = items
	quote.Summary = summary
	quote.MeetsMinimum = meetsMinimum
	quote.PromoTotal = promoTotal
	return nil
}
