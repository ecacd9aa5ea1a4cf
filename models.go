package africapayments

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var validate = validator.New()

// PaymentRequest describes a payment to initiate. Reference is the caller's
// idempotent order key, distinct from the server-assigned transaction id.
type PaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string `validate:"required,len=3,alpha"`
	PhoneNumber string `validate:"required"`
	Reference   string `validate:"required"`
	Description string
	CallbackURL string `validate:"omitempty,url"`
	Metadata    map[string]any
	Provider    Provider
}

// Normalize returns a copy with the currency upper-cased and the phone number
// reduced to digits, validating field constraints along the way.
func (r PaymentRequest) Normalize() (PaymentRequest, error) {
	if !r.Amount.IsPositive() {
		return r, newValidationError("amount must be positive")
	}

	phone, err := normalizePhoneNumber(r.PhoneNumber)
	if err != nil {
		return r, err
	}
	r.PhoneNumber = phone
	r.Currency = strings.ToUpper(r.Currency)

	if err := validate.Struct(r); err != nil {
		return r, newValidationError(fmt.Sprintf("invalid payment request: %v", err))
	}
	return r, nil
}

// payload converts the request to its wire shape: camelCase keys, amount as a
// JSON number, absent optionals omitted.
func (r PaymentRequest) payload() map[string]any {
	data := map[string]any{
		"amount":      r.Amount.InexactFloat64(),
		"currency":    r.Currency,
		"phoneNumber": r.PhoneNumber,
		"reference":   r.Reference,
	}
	if r.Description != "" {
		data["description"] = r.Description
	}
	if r.CallbackURL != "" {
		data["callbackUrl"] = r.CallbackURL
	}
	if r.Metadata != nil {
		data["metadata"] = r.Metadata
	}
	if r.Provider != "" {
		data["provider"] = string(r.Provider)
	}
	return data
}

func normalizePhoneNumber(raw string) (string, error) {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()
	if len(cleaned) < 9 || len(cleaned) > 15 {
		return "", newValidationError("invalid phone number length")
	}
	return cleaned, nil
}

// PaymentResponse is a transaction as reported by the API.
type PaymentResponse struct {
	TransactionID string          `json:"transactionId"`
	Status        Status          `json:"status"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PhoneNumber   string          `json:"phoneNumber"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ReceiptURL    string          `json:"receiptUrl,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
}

func (r *PaymentResponse) IsSuccess() bool { return r.Status == StatusSuccess }
func (r *PaymentResponse) IsPending() bool { return r.Status == StatusPending }
func (r *PaymentResponse) IsFailed() bool  { return r.Status == StatusFailed }

// RefundRequest reverses a transaction, fully when Amount is nil.
type RefundRequest struct {
	TransactionID string `validate:"required"`
	Amount        *decimal.Decimal
	Reason        string
}

func (r RefundRequest) validate() error {
	if err := validate.Struct(r); err != nil {
		return newValidationError(fmt.Sprintf("invalid refund request: %v", err))
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return newValidationError("refund amount must be positive")
	}
	return nil
}

func (r RefundRequest) payload() map[string]any {
	data := map[string]any{"transactionId": r.TransactionID}
	if r.Amount != nil {
		data["amount"] = r.Amount.InexactFloat64()
	}
	if r.Reason != "" {
		data["reason"] = r.Reason
	}
	return data
}

// TransactionQuery filters transaction history. Zero values mean "no filter";
// Limit defaults to 20 and Offset to 0.
type TransactionQuery struct {
	TransactionID string
	Reference     string
	StartDate     time.Time
	EndDate       time.Time
	Status        Status
	Limit         int `validate:"gte=0,lte=100"`
	Offset        int `validate:"gte=0"`
}

func (q TransactionQuery) validate() error {
	if err := validate.Struct(q); err != nil {
		return newValidationError(fmt.Sprintf("invalid transaction query: %v", err))
	}
	return nil
}

func (q TransactionQuery) params() url.Values {
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.TransactionID != "" {
		params.Set("transactionId", q.TransactionID)
	}
	if q.Reference != "" {
		params.Set("reference", q.Reference)
	}
	if !q.StartDate.IsZero() {
		params.Set("startDate", q.StartDate.Format(time.RFC3339))
	}
	if !q.EndDate.IsZero() {
		params.Set("endDate", q.EndDate.Format(time.RFC3339))
	}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	return params
}

// TransactionHistory is a page of transactions.
type TransactionHistory struct {
	Transactions []PaymentResponse `json:"transactions"`
	Total        int               `json:"total"`
	HasMore      bool              `json:"hasMore"`
}

// WebhookEvent is an inbound notification of a transaction state change.
type WebhookEvent struct {
	EventType string          `json:"eventType"`
	Data      PaymentResponse `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Signature string          `json:"signature"`
}

// EventID derives a stable identifier from the event type and transaction.
func (e *WebhookEvent) EventID() string {
	return e.EventType + ":" + e.Data.TransactionID
}
