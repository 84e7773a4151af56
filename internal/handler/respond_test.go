package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luminastore/lumina/internal/domain"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EEMPTYCART, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusForCode(tt.code); got != tt.want {
			t.Errorf("StatusForCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestDecodeAndValidate(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	newRequest := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		var p payload
		if err := DecodeAndValidate(newRequest(`{"email":"maya@example.com"}`), &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Email != "maya@example.com" {
			t.Errorf("unexpected email %q", p.Email)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		var p payload
		err := DecodeAndValidate(newRequest(`{`), &p)
		if domain.ErrorCode(err) != domain.EINVALID {
			t.Errorf("expected invalid, got %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		var p payload
		err := DecodeAndValidate(newRequest(`{"email":"maya@example.com","admin":true}`), &p)
		if domain.ErrorCode(err) != domain.EINVALID {
			t.Errorf("expected invalid, got %v", err)
		}
	})

	t.Run("failed validation names the field", func(t *testing.T) {
		var p payload
		err := DecodeAndValidate(newRequest(`{"email":"not-an-email"}`), &p)
		if domain.ErrorCode(err) != domain.EINVALID {
			t.Fatalf("expected invalid, got %v", err)
		}
		if !strings.Contains(domain.ErrorMessage(err), "Email") {
			t.Errorf("expected message to name the field, got %q", domain.ErrorMessage(err))
		}
	})
}
