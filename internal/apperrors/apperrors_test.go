package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("email", "a valid email is required"), http.StatusBadRequest},
		{"not found", NotFound("ride"), http.StatusNotFound},
		{"conflict", Conflict("ride is no longer available"), http.StatusConflict},
		{"invalid transition", InvalidTransition("PENDING", "COMPLETED"), http.StatusConflict},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("user")), http.StatusNotFound},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("%s: HTTPStatus = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIsKind(t *testing.T) {
	err := Conflict("already rated")
	if !IsKind(err, KindConflict) {
		t.Error("IsKind should match the error's own kind")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind should not match a different kind")
	}

	wrapped := fmt.Errorf("rate ride: %w", err)
	if !IsKind(wrapped, KindConflict) {
		t.Error("IsKind should unwrap")
	}

	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("IsKind should reject unclassified errors")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := Validation("phone", "invalid phone format").Error(); got != "phone: invalid phone format" {
		t.Errorf("validation message = %q", got)
	}
	if got := NotFound("vehicle").Error(); got != "vehicle not found" {
		t.Errorf("not found message = %q", got)
	}
}
