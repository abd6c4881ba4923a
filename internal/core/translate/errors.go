package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// Error kinds. Every provider failure wraps exactly one of these.
var (
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrAuth              = errors.New("authentication failed")
	ErrRateLimit         = errors.New("rate limited")
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPI               = errors.New("API error")
)

// Error is a classified provider failure.
type Error struct {
	Kind     error
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Transient reports whether retrying the same request may succeed.
func (e *Error) Transient() bool {
	switch e.Kind {
	case ErrRateLimit, ErrNetwork, ErrMalformedResponse:
		return true
	case ErrAPI:
		return e.Status >= 500 || e.Status == http.StatusRequestTimeout || e.Status == http.StatusConflict
	default:
		return false
	}
}

// IsTransient reports whether err is a provider error worth retrying.
func IsTransient(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Transient()
	}
	return false
}

func missingKey(provider string) error {
	return &Error{Kind: ErrMissingAPIKey, Provider: provider, Err: fmt.Errorf("set %s or run 'translator config set-key %s'", envVarFor(provider), provider)}
}

func malformed(provider string, err error) error {
	return &Error{Kind: ErrMalformedResponse, Provider: provider, Err: err}
}

// statusFunc extracts an HTTP status code from an SDK-specific error.
type statusFunc func(error) (int, bool)

// classify turns an SDK error into an *Error. Context cancellation is passed
// through untouched so callers can tell an interrupt from a failure.
func classify(provider string, err error, status statusFunc) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	if status != nil {
		if code, ok := status(err); ok && code != 0 {
			return &Error{Kind: kindForStatus(code, err), Provider: provider, Status: code, Err: err}
		}
	}

	if isNetworkError(err) {
		return &Error{Kind: ErrNetwork, Provider: provider, Err: err}
	}
	return &Error{Kind: ErrAPI, Provider: provider, Err: err}
}

func kindForStatus(code int, err error) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusTooManyRequests:
		return ErrRateLimit
	case code >= 400 && isQuotaMessage(err.Error()):
		return ErrRateLimit
	default:
		return ErrAPI
	}
}

func isQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "rate limit")
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
