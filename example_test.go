package africapayments_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	africapayments "github.com/africapayments/africapayments-go"
)

func Example() {
	cfg, err := africapayments.NewConfig("your-api-key",
		africapayments.WithEnvironment(africapayments.EnvironmentSandbox),
		africapayments.WithRegion(africapayments.RegionKE),
	)
	if err != nil {
		log.Fatal(err)
	}

	client := africapayments.NewClient(cfg)
	defer client.Close()

	resp, err := client.InitiatePayment(context.Background(), africapayments.PaymentRequest{
		Amount:      decimal.RequireFromString("1000.00"),
		Currency:    "KES",
		PhoneNumber: "254712345678",
		Reference:   "ORDER-123",
		Description: "Premium subscription",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("transaction:", resp.TransactionID)
}

func ExampleClient_PollTransactionStatus() {
	cfg, _ := africapayments.NewConfig("your-api-key")
	client := africapayments.NewClient(cfg)
	defer client.Close()

	final, err := client.PollTransactionStatus(context.Background(), "tx-123",
		5*time.Second, 5*time.Minute,
		func(tx *africapayments.PaymentResponse) {
			fmt.Println("status:", tx.Status)
		})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("final status:", final.Status)
}

func ExampleClient_HandleWebhook() {
	cfg, _ := africapayments.NewConfig("your-api-key",
		africapayments.WithWebhookSecret("webhook-secret"))
	client := africapayments.NewClient(cfg)

	client.AddEventHandler(func(ctx context.Context, event africapayments.WebhookEvent) error {
		fmt.Println("received:", event.EventID())
		return nil
	})

	rawBody := []byte(`{"eventType":"payment.completed","data":{"transactionId":"tx-123"}}`)
	signature := "signature-from-header"

	if !africapayments.VerifyWebhookSignature(rawBody, signature, cfg.WebhookSecret) {
		log.Fatal("invalid webhook signature")
	}
	if err := client.HandleWebhook(context.Background(), rawBody); err != nil {
		log.Fatal(err)
	}
}

func ExampleBatchOperations() {
	cfg, _ := africapayments.NewConfig("your-api-key")
	client := africapayments.NewClient(cfg)
	defer client.Close()

	batch := client.Batch()
	for i, phone := range []string{"254712345678", "254798765432"} {
		batch.AddPayment(africapayments.PaymentRequest{
			Amount:      decimal.NewFromInt(500),
			Currency:    "KES",
			PhoneNumber: phone,
			Reference:   fmt.Sprintf("PAYOUT-%d", i),
		})
	}

	for i, result := range batch.Execute(context.Background()) {
		if result.Err != nil {
			fmt.Printf("payout %d failed: %v\n", i, result.Err)
			continue
		}
		fmt.Printf("payout %d: %s\n", i, result.Response.TransactionID)
	}
}
