package workflows

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"go-temporal-pricing/order-pricing/activities"
	"go-temporal-pricing/order-pricing/types"
)

type QuoteWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env *testsuite.TestWorkflowEnvironment
}

func TestQuoteWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(QuoteWorkflowTestSuite))
}

func (s *QuoteWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivity(&activities.PricingActivities{})
	s.env.RegisterActivity(activities.NewCustomerActivities(map[string]types.User{
		"gold-ca":   {LoyaltyTier: types.TierGold, State: "CA"},
		"bronze-ny": {LoyaltyTier: types.TierBronze, State: "NY"},
	}))
}

func (s *QuoteWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *QuoteWorkflowTestSuite) result() types.Quote {
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var quote types.Quote
	s.NoError(s.env.GetWorkflowResult(&quote))
	return quote
}

func (s *QuoteWorkflowTestSuite) query() types.Quote {
	res, err := s.env.QueryWorkflow(QueryQuote)
	s.NoError(err)

	var quote types.Quote
	s.NoError(res.Get(&quote))
	return quote
}

func (s *QuoteWorkflowTestSuite) Test_Confirmed() {
	s.env.RegisterDelayedCallback(func() {
		quote := s.query()
		s.Equal(StageAwaitingConfirmation, quote.Stage)
		s.Equal("97.20", quote.Summary.Total.StringFixed(2))

		s.env.SignalWorkflow(SignalConfirm, types.ConfirmRequest{ConfirmedBy: "tester"})
	}, time.Minute)

	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-1",
		CustomerID: "gold-ca",
		Items:      []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 12}},
	})

	quote := s.result()
	s.Equal(StageConfirmed, quote.Stage)
	s.True(quote.Confirmed)
	s.True(quote.MeetsMinimum)
	s.Equal(types.User{LoyaltyTier: types.TierGold, State: "CA"}, quote.Customer)
	s.Equal("120.00", quote.Summary.Subtotal.StringFixed(2))
	s.Equal("30.00", quote.Summary.Discount.StringFixed(2))
	s.Equal("7.20", quote.Summary.Tax.StringFixed(2))
	s.Equal("97.20", quote.Summary.Total.StringFixed(2))
	s.Nil(quote.PromoTotal)
}

func (s *QuoteWorkflowTestSuite) Test_BelowMinimumUntilItemAdded() {
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalConfirm, types.ConfirmRequest{ConfirmedBy: "tester"})
	}, time.Minute)
	s.env.RegisterDelayedCallback(func() {
		quote := s.query()
		s.False(quote.Confirmed)
		s.False(quote.MeetsMinimum)
		s.Equal("9.98", quote.Summary.Total.StringFixed(2))
		s.Contains(quote.LastError, "below minimum")
		s.Equal(StageAwaitingConfirmation, quote.Stage)

		s.env.SignalWorkflow(SignalAddItem, types.LineItem{SKU: "PEN-042", Price: decimal.NewFromInt(1), Quantity: 1})
	}, 2*time.Minute)
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalConfirm, types.ConfirmRequest{ConfirmedBy: "tester"})
	}, 3*time.Minute)

	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-2",
		CustomerID: "bronze-ny",
		Items:      []types.LineItem{{SKU: "BOOK-002", Price: decimal.NewFromInt(5), Quantity: 2}},
	})

	quote := s.result()
	s.Equal(StageConfirmed, quote.Stage)
	s.Len(quote.Items, 2)
	s.True(quote.MeetsMinimum)
	s.Equal("11.00", quote.Summary.Subtotal.StringFixed(2))
	s.Equal("0.55", quote.Summary.Discount.StringFixed(2))
	s.Equal("0.52", quote.Summary.Tax.StringFixed(2))
	s.Equal("10.97", quote.Summary.Total.StringFixed(2))
}

func (s *QuoteWorkflowTestSuite) Test_InvalidItemRejected() {
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalAddItem, types.LineItem{SKU: "BAD", Price: decimal.NewFromInt(1), Quantity: -4})
	}, time.Minute)
	s.env.RegisterDelayedCallback(func() {
		res, err := s.env.QueryWorkflow(QueryItems)
		s.NoError(err)

		var items []types.LineItem
		s.NoError(res.Get(&items))
		s.Len(items, 1)

		s.env.SignalWorkflow(SignalConfirm, types.ConfirmRequest{ConfirmedBy: "tester"})
	}, 2*time.Minute)

	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-3",
		CustomerID: "gold-ca",
		Items:      []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 12}},
	})

	quote := s.result()
	s.Equal(StageConfirmed, quote.Stage)
	s.Len(quote.Items, 1)
	s.Contains(quote.LastError, "item BAD rejected")
	s.Equal("97.20", quote.Summary.Total.StringFixed(2))
}

func (s *QuoteWorkflowTestSuite) Test_Cancelled() {
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalCancel, types.CancelRequest{Reason: "customer requested"})
	}, time.Minute)

	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-4",
		CustomerID: "gold-ca",
		Items:      []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 12}},
	})

	quote := s.result()
	s.Equal(StageCancelled, quote.Stage)
	s.True(quote.Cancelled)
	s.Equal("cancelled: customer requested", quote.LastError)
}

func (s *QuoteWorkflowTestSuite) Test_Expired() {
	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-5",
		CustomerID: "gold-ca",
		Items:      []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 12}},
	})

	quote := s.result()
	s.Equal(StageExpired, quote.Stage)
	s.False(quote.Confirmed)
	s.Equal("quote expired", quote.LastError)
}

func (s *QuoteWorkflowTestSuite) Test_PromoAndOverrides() {
	taxRate := decimal.Zero
	minimum := decimal.NewFromInt(100)
	promo := decimal.NewFromInt(10)

	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:      "ORDER-6",
		CustomerID:   "gold-ca",
		Items:        []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 12}},
		TaxRate:      &taxRate,
		Minimum:      &minimum,
		PromoPercent: &promo,
	})

	quote := s.result()
	s.Equal(StageExpired, quote.Stage)
	s.Equal("90.00", quote.Summary.Total.StringFixed(2))
	s.True(quote.Summary.Tax.IsZero())
	s.False(quote.MeetsMinimum)
	s.Equal("100.00", quote.Minimum.StringFixed(2))
	s.Require().NotNil(quote.PromoTotal)
	s.Equal("81.00", quote.PromoTotal.StringFixed(2))
}

func (s *QuoteWorkflowTestSuite) Test_UnknownCustomer() {
	s.env.ExecuteWorkflow(QuoteOrderWorkflow, types.QuoteRequest{
		OrderID:    "ORDER-7",
		CustomerID: "nobody",
		Items:      []types.LineItem{{SKU: "BOOK-001", Price: decimal.NewFromInt(10), Quantity: 1}},
	})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "unknown customer nobody")
}
