package africapayments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an API failure so callers can react per category.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindAuthentication  Kind = "AUTH_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindPaymentConflict Kind = "PAYMENT_ERROR"
	KindRateLimit       Kind = "RATE_LIMIT"
	KindServer          Kind = "SERVER_ERROR"
	KindAPI             Kind = "API_ERROR"
	KindTimeout         Kind = "TIMEOUT"
	KindNetwork         Kind = "NETWORK_ERROR"
	KindConfiguration   Kind = "CONFIG_ERROR"
)

// Error is the failure type returned by every SDK operation.
type Error struct {
	Kind    Kind
	Message string
	Code    string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an SDK error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func IsValidation(err error) bool     { return IsKind(err, KindValidation) }
func IsAuthentication(err error) bool { return IsKind(err, KindAuthentication) }
func IsNotFound(err error) bool       { return IsKind(err, KindNotFound) }
func IsRateLimit(err error) bool      { return IsKind(err, KindRateLimit) }
func IsTimeout(err error) bool        { return IsKind(err, KindTimeout) }
func IsNetwork(err error) bool        { return IsKind(err, KindNetwork) }

func newValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func newConfigurationError(msg string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: err}
}

func newTimeoutError(msg string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: msg, Err: err}
}

func newNetworkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

type errorBody struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

// errorFromStatus maps a >=400 response to a classified error. The body is
// expected to carry {message, code?, details?}; anything unparseable is
// wrapped verbatim into the message.
func errorFromStatus(status int, body []byte) *Error {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = errorBody{Message: strings.TrimSpace(string(body))}
	}
	if parsed.Message == "" {
		parsed.Message = "Unknown error"
	}

	var kind Kind
	switch {
	case status == 400:
		kind = KindValidation
	case status == 401:
		kind = KindAuthentication
	case status == 404:
		kind = KindNotFound
	case status == 409:
		kind = KindPaymentConflict
	case status == 429:
		kind = KindRateLimit
	case status >= 500:
		kind = KindServer
	default:
		kind = KindAPI
	}

	return &Error{
		Kind:    kind,
		Message: parsed.Message,
		Code:    parsed.Code,
		Details: parsed.Details,
	}
}
