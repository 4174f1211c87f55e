package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyTier is a customer's loyalty level. Matching is exact and case-sensitive.
type LoyaltyTier string

const (
	TierBronze LoyaltyTier = "bronze"
	TierSilver LoyaltyTier = "silver"
	TierGold   LoyaltyTier = "gold"
)

// LineItem represents a product in an order
type LineItem struct {
	SKU      string
	Price    decimal.Decimal
	Quantity int
}

// User holds the customer attributes that affect pricing
type User struct {
	LoyaltyTier LoyaltyTier
	State       string
}

// OrderSummary is the priced breakdown of an order. Every field is rounded to cents.
type OrderSummary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PricingRequest is the input of the CalculateOrderTotal activity
type PricingRequest struct {
	Items   []LineItem
	User    User
	TaxRate *decimal.Decimal
}

// QuoteRequest is the input of the QuoteOrderWorkflow
type QuoteRequest struct {
	OrderID      string
	CustomerID   string
	Items        []LineItem
	TaxRate      *decimal.Decimal
	Minimum      *decimal.Decimal
	PromoPercent *decimal.Decimal
}

// Quote represents the current state of a quote workflow
type Quote struct {
	OrderID      string
	CustomerID   string
	Stage        string
	Items        []LineItem
	Customer     User
	Summary      OrderSummary
	PromoTotal   *decimal.Decimal
	Minimum      decimal.Decimal
	MeetsMinimum bool
	Confirmed    bool
	Cancelled    bool
	LastError    string
	ExpiresAt    time.Time
}

// ConfirmRequest is the signal payload for confirming a quote
type ConfirmRequest struct {
	ConfirmedBy string
	Timestamp   time.Time
}

// CancelRequest is the signal payload for cancelling a quote
type CancelRequest struct {
	Reason string
}
