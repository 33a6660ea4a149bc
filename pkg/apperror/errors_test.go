package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestGetAppErrorPassesThrough(t *testing.T) {
	appErr := NewConflictError("Resource busy")
	if got := GetAppError(appErr); got != appErr {
		t.Errorf("got %+v, want the original error", got)
	}

	wrapped := fmt.Errorf("saving order: %w", NewNotFoundError("Order"))
	got := GetAppError(wrapped)
	if got.Code != http.StatusNotFound || got.Message != "Order not found" {
		t.Errorf("wrapped AppError = %d %q", got.Code, got.Message)
	}
}

func TestGetAppErrorHidesUnknownErrorDetails(t *testing.T) {
	err := errors.New("pq: connection refused host=db.internal user=admin")

	got := GetAppError(err)
	if got.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", got.Code)
	}
	if strings.Contains(got.Message, "db.internal") || strings.Contains(got.Message, "admin") {
		t.Errorf("message leaks internal details: %q", got.Message)
	}
	if got.Message != "An unexpected error occurred" {
		t.Errorf("message = %q, want a generic one", got.Message)
	}
}

func TestConflictAndNotFoundChecks(t *testing.T) {
	if !IsConflict(NewConflictError("taken")) {
		t.Error("IsConflict should match a 409 AppError")
	}
	if IsConflict(NewNotFoundError("Customer")) {
		t.Error("IsConflict must not match a 404")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", NewNotFoundError("Customer"))) {
		t.Error("IsNotFound should unwrap")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("plain errors are not AppErrors")
	}
}
