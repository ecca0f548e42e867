package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ProviderError reports a network failure or a non-success status from the
// repository-hosting API.
type ProviderError struct {
	Op          string
	Repository  string
	StatusCode  int
	rateLimited bool
	Err         error
}

// NewProviderError builds a ProviderError. statusCode is 0 when no response was received.
func NewProviderError(op, repository string, statusCode int, rateLimited bool, err error) *ProviderError {
	return &ProviderError{
		Op:          op,
		Repository:  repository,
		StatusCode:  statusCode,
		rateLimited: rateLimited,
		Err:         err,
	}
}

func (e *ProviderError) Error() string {
	target := e.Op
	if e.Repository != "" {
		target = fmt.Sprintf("%s %s", e.Op, e.Repository)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error: %s: status %d: %v", target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider error: %s: %v", target, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the provider refused the request because of a rate limit.
func (e *ProviderError) RateLimited() bool {
	return e.rateLimited
}

// MalformedDataError reports a repository or language payload missing expected fields.
type MalformedDataError struct {
	What string
	Err  error
}

func (e *MalformedDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed data: %s", e.What)
	}
	return fmt.Sprintf("malformed data: %s: %v", e.What, e.Err)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is, or wraps, a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsMalformedData reports whether err is, or wraps, a MalformedDataError.
func IsMalformedData(err error) bool {
	var me *MalformedDataError
	return errors.As(err, &me)
}
