package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	"go-temporal-pricing/order-pricing/types"
	"go-temporal-pricing/order-pricing/workflows"
)

func main() {
	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort: getEnv("TEMPORAL_HOST", "localhost:7233"),
	})
	if err != nil {
		log.Fatalln("Unable to create Temporal client", err)
	}
	defer c.Close()

	taskQueue := getEnv("PRICING_TASK_QUEUE", "pricing-task-queue")

	req, err := quoteRequest()
	if err != nil {
		log.Fatalln("Invalid quote configuration", err)
	}
	runQuoteWorkflow(c, taskQueue, req)
}

// quoteRequest builds the workflow input from the environment
func quoteRequest() (types.QuoteRequest, error) {
	req := types.QuoteRequest{
		OrderID:    getEnv("ORDER_ID", fmt.Sprintf("ORDER-%d", time.Now().Unix())),
		CustomerID: getEnv("CUSTOMER_ID", "user-123"),
		Items: []types.LineItem{
			{SKU: "BOOK-001", Price: decimal.RequireFromString("12.50"), Quantity: 2},
			{SKU: "PEN-042", Price: decimal.RequireFromString("1.99"), Quantity: 5},
		},
	}

	var err error
	if req.TaxRate, err = optionalDecimal("TAX_RATE"); err != nil {
		return req, err
	}
	if req.Minimum, err = optionalDecimal("MINIMUM_ORDER"); err != nil {
		return req, err
	}
	if req.PromoPercent, err = optionalDecimal("PROMO_PERCENT"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalDecimal(key string) (*decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return &d, nil
}

func runQuoteWorkflow(c client.Client, taskQueue string, req types.QuoteRequest) {
	workflowID := fmt.Sprintf("quote-workflow-%s", req.OrderID)

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: taskQueue,
	}

	log.Printf("Starting QuoteOrderWorkflow: %s\n", workflowID)
	log.Printf("Order ID: %s, Customer ID: %s\n", req.OrderID, req.CustomerID)

	we, err := c.ExecuteWorkflow(context.Background(), workflowOptions, workflows.QuoteOrderWorkflow, req)
	if err != nil {
		log.Fatalln("Unable to start workflow", err)
	}

	log.Printf("Started workflow - WorkflowID: %s, RunID: %s\n", we.GetID(), we.GetRunID())
	log.Printf("\n📋 Workflow Management Commands:\n")
	log.Printf("  View in UI: http://localhost:8080/namespaces/default/workflows/%s\n", workflowID)
	log.Printf("\n  Query quote:\n")
	log.Printf("    tctl workflow query -w %s -qt %s\n", workflowID, workflows.QueryQuote)
	log.Printf("\n  Confirm quote:\n")
	log.Printf("    tctl workflow signal -w %s -n %s -i '{\"ConfirmedBy\":\"admin\"}'\n", workflowID, workflows.SignalConfirm)
	log.Printf("\n  Cancel quote:\n")
	log.Printf("    tctl workflow signal -w %s -n %s -i '{\"Reason\":\"customer requested\"}'\n", workflowID, workflows.SignalCancel)
	log.Printf("\n  Add item:\n")
	log.Printf("    tctl workflow signal -w %s -n %s -i '{\"SKU\":\"ITEM-999\",\"Price\":\"4.25\",\"Quantity\":3}'\n", workflowID, workflows.SignalAddItem)

	if getEnv("ASYNC", "false") == "true" {
		log.Printf("\n🚀 Workflow started asynchronously. Use the commands above to interact.\n")
		return
	}

	log.Printf("\n⏳ Waiting for the quote to be confirmed, cancelled or to expire...\n")

	if getEnv("AUTO_CONFIRM", "false") == "true" {
		go func() {
			time.Sleep(2 * time.Second)
			log.Printf("\n🤖 Auto-confirming quote...\n")
			err := c.SignalWorkflow(
				context.Background(),
				workflowID,
				"",
				workflows.SignalConfirm,
				types.ConfirmRequest{ConfirmedBy: "auto-confirmer", Timestamp: time.Now()},
			)
			if err != nil {
				log.Printf("Failed to send confirm signal: %v\n", err)
			}
		}()
	}

	var quote types.Quote
	err = we.Get(context.Background(), &quote)
	if err != nil {
		log.Fatalf("❌ Workflow execution failed: %v\n", err)
	}

	log.Printf("\n✅ Workflow completed: %s\n", quote.Stage)
	log.Printf("\n📊 Final Quote:\n")
	log.Printf("  Items:    %d\n", len(quote.Items))
	log.Printf("  Subtotal: %s\n", quote.Summary.Subtotal.StringFixed(2))
	log.Printf("  Discount: %s\n", quote.Summary.Discount.StringFixed(2))
	log.Printf("  Tax:      %s\n", quote.Summary.Tax.StringFixed(2))
	log.Printf("  Total:    %s\n", quote.Summary.Total.StringFixed(2))
	if quote.PromoTotal != nil {
		log.Printf("  Promo:    %s\n", quote.PromoTotal.StringFixed(2))
	}
	if quote.LastError != "" {
		log.Printf("  Note:     %s\n", quote.LastError)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
