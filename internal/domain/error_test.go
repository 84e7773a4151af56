package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "cart.add_item",
				Message: "invalid input",
			},
			expected: "cart.add_item: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "cart.add_item",
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "cart.add_item: failed to save: database connection failed",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "failed to save: database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "domain error",
			err:      &Error{Code: ENOTFOUND, Message: "not found"},
			expected: ENOTFOUND,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("context: %w", &Error{Code: EEMPTYCART, Message: "empty"}),
			expected: EEMPTYCART,
		},
		{
			name:     "plain error maps to internal",
			err:      errors.New("some failure"),
			expected: EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	generic := "An internal error occurred. Please try again later."

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "user-facing message preserved",
			err:      &Error{Code: EINVALID, Message: "Quantity must be at least 1"},
			expected: "Quantity must be at least 1",
		},
		{
			name:     "internal details hidden",
			err:      &Error{Code: EINTERNAL, Message: "pgx: connection refused"},
			expected: generic,
		},
		{
			name:     "unknown error type hidden",
			err:      errors.New("unexpected"),
			expected: generic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, EINTERNAL, "op", "msg") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	underlying := errors.New("disk full")
	err := WrapError(underlying, EINTERNAL, "order.submit", "failed to persist order")

	if !errors.Is(err, underlying) {
		t.Error("wrapped error should unwrap to underlying")
	}
	if ErrorCode(err) != EINTERNAL {
		t.Errorf("ErrorCode() = %q, want %q", ErrorCode(err), EINTERNAL)
	}
}

func TestIsCode(t *testing.T) {
	err := NotFound("catalog.resolve", "product", "abc")
	if !IsCode(err, ENOTFOUND) {
		t.Error("IsCode should match ENOTFOUND")
	}
	if IsCode(err, EINVALID) {
		t.Error("IsCode should not match EINVALID")
	}
}
