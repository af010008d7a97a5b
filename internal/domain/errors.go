package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies extraction failures so callers can branch on the
// kind instead of string-matching messages.
type ErrorKind string

const (
	ErrInvalidLink          ErrorKind = "invalid_link"
	ErrRateLimited          ErrorKind = "rate_limit"
	ErrVerificationRequired ErrorKind = "verification_required"
	ErrConnection           ErrorKind = "connection_error"
	ErrAuthExpired          ErrorKind = "auth_expired"
	ErrUnsupportedURL       ErrorKind = "unsupported_url"
)

// ExtractError is the common error type surfaced by extractors and the
// dispatcher. It carries a machine-readable kind and a short human-readable
// message.
type ExtractError struct {
	Kind       ErrorKind
	Message    string
	RetryAfter time.Duration // suggested wait for rate_limit, zero otherwise
	Err        error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError builds an ExtractError of the given kind.
func NewExtractError(kind ErrorKind, message string) *ExtractError {
	return &ExtractError{Kind: kind, Message: message}
}

// WrapExtractError wraps an underlying cause with a classified kind.
func WrapExtractError(kind ErrorKind, message string, err error) *ExtractError {
	return &ExtractError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classified kind of err, or ErrConnection when err is
// not an ExtractError (unknown failures are treated as transient).
func KindOf(err error) ErrorKind {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ErrConnection
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
