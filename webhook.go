package africapayments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
)

// EventHandler reacts to an inbound webhook event. Handlers needing
// asynchronous work should start their own goroutine.
type EventHandler func(ctx context.Context, event WebhookEvent) error

type registeredHandler struct {
	fn EventHandler
	id uintptr
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature of a raw webhook
// payload against the shared secret using a constant-time comparison.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// AddEventHandler registers a handler; handlers run in registration order.
func (c *Client) AddEventHandler(handler EventHandler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers = append(c.handlers, registeredHandler{
		fn: handler,
		id: reflect.ValueOf(handler).Pointer(),
	})
}

// RemoveEventHandler unregisters the first matching handler. Removing a
// handler that was never added is a no-op.
func (c *Client) RemoveEventHandler(handler EventHandler) {
	id := reflect.ValueOf(handler).Pointer()

	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	for i, h := range c.handlers {
		if h.id == id {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return
		}
	}
}

// HandleWebhook deserializes an inbound webhook payload and delivers the
// event to every registered handler in order. A handler's error or panic is
// discarded so it cannot block delivery to the remaining handlers; the only
// failure mode is an unparseable payload.
func (c *Client) HandleWebhook(ctx context.Context, payload []byte) error {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return newValidationError(fmt.Sprintf("invalid webhook payload: %v", err))
	}

	c.handlersMu.Lock()
	handlers := make([]registeredHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.handlersMu.Unlock()

	for _, h := range handlers {
		deliver(ctx, h.fn, event)
	}
	return nil
}

func deliver(ctx context.Context, handler EventHandler, event WebhookEvent) {
	defer func() {
		_ = recover()
	}()
	_ = handler(ctx, event)
}
