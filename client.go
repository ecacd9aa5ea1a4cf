package africapayments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

const apiVersionPrefix = "/v1"

// Client talks to the Africa Payments API. A single instance is safe for
// concurrent use; the underlying HTTP connection pool is created lazily on
// first request and released by Close.
type Client struct {
	config *Config
	logger *slog.Logger

	httpOnce   sync.Once
	httpClient *http.Client

	handlersMu sync.Mutex
	handlers   []registeredHandler

	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption customizes a Client at construction time.
type ClientOption func(*Client)

// WithLogger attaches a structured logger. Without one the client is silent.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a client from a validated Config.
func NewClient(cfg *Config, opts ...ClientOption) *Client {
	c := &Client{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) http() *http.Client {
	c.httpOnce.Do(func() {
		if c.httpClient == nil {
			c.httpClient = &http.Client{Timeout: c.config.Timeout}
		}
	})
	return c.httpClient
}

// Close releases idle connections held by the client. Safe to call more than
// once; in-flight requests are unaffected.
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// do executes one logical API call with bounded retry. Transport-level
// timeouts and connectivity failures are retried with exponential backoff
// (1s, 2s, 4s, ...); application errors surface immediately.
func do[T any](c *Client, ctx context.Context, method, path string, body any, params url.Values) (*T, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		resp, err := send[T](c, ctx, method, path, body, params)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if !isRetryable(err) {
			return nil, err
		}

		lastErr = err

		if attempt < c.config.MaxRetries {
			delay := time.Duration(1<<attempt) * time.Second
			c.logger.Debug("retrying request",
				"method", method, "path", path,
				"attempt", attempt+1, "delay", delay, "error", err)
			if serr := c.sleep(ctx, delay); serr != nil {
				return nil, serr
			}
		}
	}

	if lastErr == nil {
		lastErr = &Error{Kind: KindAPI, Message: "request failed after retries"}
	}
	return nil, lastErr
}

// send performs a single attempt.
func send[T any](c *Client, ctx context.Context, method, path string, body any, params url.Values) (*T, error) {
	u := c.config.EffectiveBaseURL() + apiVersionPrefix + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, v := range c.config.Headers() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http().Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err, c.config.Timeout)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, errorFromStatus(resp.StatusCode, raw)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	return &out, nil
}

func classifyTransportError(err error, timeout time.Duration) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return newTimeoutError(fmt.Sprintf("request timed out after %s", timeout), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(fmt.Sprintf("request timed out after %s", timeout), err)
	}
	return newNetworkError(fmt.Sprintf("network error: %v", err), err)
}

func isRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindTimeout || apiErr.Kind == KindNetwork
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// InitiatePayment creates a new payment transaction.
func (c *Client) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	normalized, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	return do[PaymentResponse](c, ctx, http.MethodPost, "/payments", normalized.payload(), nil)
}

// GetTransaction fetches a transaction by its server-assigned id.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*PaymentResponse, error) {
	return do[PaymentResponse](c, ctx, http.MethodGet, "/payments/"+url.PathEscape(transactionID), nil, nil)
}

// GetTransactionHistory lists transactions matching the query. A nil query
// returns the first page with the default limit of 20.
func (c *Client) GetTransactionHistory(ctx context.Context, query *TransactionQuery) (*TransactionHistory, error) {
	q := TransactionQuery{}
	if query != nil {
		q = *query
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return do[TransactionHistory](c, ctx, http.MethodGet, "/payments", nil, q.params())
}

// Refund reverses a transaction, fully or partially depending on the request.
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*PaymentResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return do[PaymentResponse](c, ctx, http.MethodPost, "/refunds", req.payload(), nil)
}

// Verify reports whether a payment completed successfully. Verification is
// advisory: any failure yields false rather than an error.
func (c *Client) Verify(ctx context.Context, transactionID string) bool {
	tx, err := c.GetTransaction(ctx, transactionID)
	if err != nil {
		return false
	}
	return tx.IsSuccess()
}

// PollTransactionStatus fetches the transaction every interval until its
// status leaves pending, invoking callback after each fetch. It fails with a
// timeout error once the elapsed wall-clock time reaches the timeout bound.
func (c *Client) PollTransactionStatus(
	ctx context.Context,
	transactionID string,
	interval, timeout time.Duration,
	callback func(*PaymentResponse),
) (*PaymentResponse, error) {
	start := time.Now()

	for {
		tx, err := c.GetTransaction(ctx, transactionID)
		if err != nil {
			return nil, err
		}

		if callback != nil {
			callback(tx)
		}

		if tx.Status != StatusPending {
			return tx, nil
		}

		if time.Since(start) >= timeout {
			return nil, newTimeoutError(fmt.Sprintf("polling timed out after %s", timeout), nil)
		}

		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}

// HealthCheck reports the API health status.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	out, err := do[map[string]any](c, ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}
