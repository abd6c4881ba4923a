package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	sdkErr := errors.New("sdk failure")
	fixed := func(code int) statusFunc {
		return func(error) (int, bool) { return code, true }
	}

	tests := []struct {
		name      string
		err       error
		status    statusFunc
		kind      error
		transient bool
	}{
		{"unauthorized", sdkErr, fixed(401), ErrAuth, false},
		{"forbidden", sdkErr, fixed(403), ErrAuth, false},
		{"too many requests", sdkErr, fixed(429), ErrRateLimit, true},
		{"quota message", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), fixed(400), ErrRateLimit, true},
		{"bad request", sdkErr, fixed(400), ErrAPI, false},
		{"server error", sdkErr, fixed(503), ErrAPI, true},
		{"request timeout", sdkErr, fixed(408), ErrAPI, true},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), nil, ErrNetwork, true},
		{"unexpected eof", io.ErrUnexpectedEOF, nil, ErrNetwork, true},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, nil, ErrNetwork, true},
		{"unknown", sdkErr, nil, ErrAPI, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("openai", tt.err, tt.status)
			if !errors.Is(err, tt.kind) {
				t.Errorf("classify() = %v, want kind %v", err, tt.kind)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("classify() lost the cause %v", tt.err)
			}
			if got := IsTransient(err); got != tt.transient {
				t.Errorf("IsTransient() = %v, want %v", got, tt.transient)
			}
		})
	}
}

func TestClassifyPassThrough(t *testing.T) {
	if err := classify("openai", nil, nil); err != nil {
		t.Errorf("classify(nil) = %v", err)
	}

	canceled := fmt.Errorf("post: %w", context.Canceled)
	if err := classify("openai", canceled, nil); err != canceled {
		t.Errorf("classify() should pass through cancellation, got %v", err)
	}

	orig := malformed("openai", errors.New("bad json"))
	if err := classify("openai", orig, nil); err != orig {
		t.Errorf("classify() should pass through an existing *Error, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrRateLimit, Provider: "anthropic", Status: 429, Err: errors.New("slow down")}
	want := "anthropic: rate limited (HTTP 429): slow down"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	missing := missingKey(ProviderOpenAI)
	if !errors.Is(missing, ErrMissingAPIKey) {
		t.Errorf("missingKey() = %v, want ErrMissingAPIKey", missing)
	}
	if !strings.Contains(missing.Error(), "OPENAI_API_KEY") {
		t.Errorf("missingKey() should name the env var, got %q", missing)
	}
	if IsTransient(missing) {
		t.Error("missing key must not be retried")
	}
}
