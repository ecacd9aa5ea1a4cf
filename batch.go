package africapayments

import (
	"context"
	"sync"
)

// BatchResult holds the outcome of one batched operation. Exactly one of
// Response and Err is set.
type BatchResult struct {
	Response *PaymentResponse
	Err      error
}

// BatchOperations collects payment initiations for concurrent execution.
// It is not safe for concurrent mutation; queue from one goroutine, then
// Execute.
type BatchOperations struct {
	client   *Client
	requests []PaymentRequest
}

// Batch starts an empty batch scoped to this client.
func (c *Client) Batch() *BatchOperations {
	return &BatchOperations{client: c}
}

// AddPayment queues a payment initiation.
func (b *BatchOperations) AddPayment(req PaymentRequest) {
	b.requests = append(b.requests, req)
}

// Execute runs all queued operations concurrently and waits for every one to
// finish. Results preserve the queueing order; a failed operation records its
// error without affecting the others.
func (b *BatchOperations) Execute(ctx context.Context) []BatchResult {
	results := make([]BatchResult, len(b.requests))

	var wg sync.WaitGroup
	for i, req := range b.requests {
		wg.Add(1)
		go func(i int, req PaymentRequest) {
			defer wg.Done()
			resp, err := b.client.InitiatePayment(ctx, req)
			results[i] = BatchResult{Response: resp, Err: err}
		}(i, req)
	}
	wg.Wait()

	return results
}
