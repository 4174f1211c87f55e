package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"go-temporal-pricing/order-pricing/activities"
	"go-temporal-pricing/order-pricing/types"
	"go-temporal-pricing/order-pricing/workflows"
)

// customerDirectory seeds the profile lookup used by FetchCustomerProfile
var customerDirectory = map[string]types.User{
	"user-123": {LoyaltyTier: types.TierGold, State: "CA"},
	"user-456": {LoyaltyTier: types.TierSilver, State: "NY"},
	"user-789": {LoyaltyTier: types.TierBronze, State: "TX"},
	"user-000": {State: "CA"},
}

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

	w := worker.New(c, taskQueue, worker.Options{
		Identity:                               "pricing-worker-" + hostname(),
		MaxConcurrentActivityExecutionSize:     100,
		MaxConcurrentWorkflowTaskExecutionSize: 50,
	})

	w.RegisterWorkflow(workflows.QuoteOrderWorkflow)

	// Pricing activities
	pricingActivities := &activities.PricingActivities{}
	w.RegisterActivity(pricingActivities.CalculateOrderTotal)
	w.RegisterActivity(pricingActivities.ApplyDiscount)
	w.RegisterActivity(pricingActivities.ValidateOrder)

	// Customer activities
	customerActivities := activities.NewCustomerActivities(customerDirectory)
	w.RegisterActivity(customerActivities.FetchCustomerProfile)

	log.Println("Worker starting on task queue:", taskQueue)
	log.Println("Worker identity:", "pricing-worker-"+hostname())

	err = w.Run(worker.InterruptCh())
	if err != nil {
		log.Fatalln("Unable to start worker", err)
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
