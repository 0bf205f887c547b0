package runtime

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"store message", &ValidationError{Message: "Email already registered"}, "Email already registered"},
		{"field message", &ValidationError{Field: "email", Message: "is required"}, "validation error on field email: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			wrapped := fmt.Errorf("create: %w", tt.err)
			if !errors.Is(wrapped, ErrValidation) {
				t.Error("expected wrapped error to match ErrValidation")
			}
			if errors.Is(wrapped, ErrTransport) {
				t.Error("validation error must not match ErrTransport")
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "fetch", Table: "product_c", Err: cause}

	if got := err.Error(); got != "fetch product_c: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("expected ErrTransport")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}

	bare := &TransportError{Message: "M"}
	if got := bare.Error(); got != "M" {
		t.Errorf("expected bare message, got %q", got)
	}
}

func TestQueryError(t *testing.T) {
	cause := errors.New("syntax error")
	err := &QueryError{Query: "SELECT 1", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
}
