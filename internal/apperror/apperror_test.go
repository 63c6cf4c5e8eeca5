package apperror

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
		{"validation", Validation("Missing required fields"), http.StatusBadRequest},
		{"conflict", Conflict("User already exists"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("Invalid credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("You can only edit your own papers"), http.StatusForbidden},
		{"not found", NotFound("Paper not found"), http.StatusNotFound},
		{"internal", Internal("Database error", errors.New("connection reset")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("service: %w", NotFound("User not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(Validation("Invalid status")); got != "Invalid status" {
		t.Errorf("Message() = %q, want %q", got, "Invalid status")
	}
	if got := Message(errors.New("pq: relation does not exist")); got != "Internal server error" {
		t.Errorf("Message() should hide non-taxonomy errors, got %q", got)
	}
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("Failed to store file", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal() should wrap its cause")
	}
	if err.Error() != "Failed to store file: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	if KindOf(err) != KindInternal {
		t.Errorf("KindOf() = %v, want KindInternal", KindOf(err))
	}
}
