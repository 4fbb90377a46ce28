package scraper

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTypeLabel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: "unknown"},
		{name: "invalid url", err: ErrInvalidURL{URL: "https://example.com"}, expected: "invalid_url"},
		{name: "session", err: ErrSession{Err: errors.New("chrome crashed")}, expected: "session"},
		{name: "navigation", err: ErrNavigation{Err: errors.New("timeout")}, expected: "navigation"},
		{name: "redirect", err: ErrRedirect{URL: "https://www.doctoralia.com.br/x/agenda"}, expected: "redirect"},
		{name: "browser", err: ErrBrowser{Err: errors.New("stale element")}, expected: "browser"},
		{name: "save", err: ErrSave{Err: errors.New("disk full")}, expected: "save"},
		{name: "wrapped navigation", err: fmt.Errorf("attempt 3: %w", ErrNavigation{Err: errors.New("timeout")}), expected: "navigation"},
		{name: "other", err: errors.New("boom"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(tt.err); got != tt.expected {
				t.Fatalf("errorTypeLabel(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	for _, err := range []error{
		ErrSession{Err: cause},
		ErrNavigation{Err: cause},
		ErrBrowser{Err: cause},
		ErrSave{Err: cause},
	} {
		if !errors.Is(err, cause) {
			t.Fatalf("%T should unwrap to its cause", err)
		}
	}
}
