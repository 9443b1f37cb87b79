package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"invalid parameter", InvalidParameterf("mass %g", -1.0), ErrorTypeInvalidParameter},
		{"not found", NotFoundf("body %s", "x"), ErrorTypeNotFound},
		{"wrapped", fmt.Errorf("create: %w", Conflictf("duplicate")), ErrorTypeConflict},
		{"plain error", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetType(tt.err); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := WrapExternal("redis publish failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "redis publish failed: dial tcp: refused" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !Is(err, ErrorTypeExternal) {
		t.Error("Expected external type")
	}
}
