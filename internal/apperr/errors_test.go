package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/torqlabs/torq-news/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("email is required")

	if err.Error() != "email is required" {
		t.Errorf("expected 'email is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid email address", inner)

	if err.Error() != "invalid email address: parse failed" {
		t.Errorf("expected 'invalid email address: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("address too long")

	wrapped := fmt.Errorf("failed to subscribe: %w", original)
	doubleWrapped := fmt.Errorf("storage error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "address too long" {
		t.Errorf("expected 'address too long', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestNewConflict(t *testing.T) {
	err := apperr.NewConflict("already subscribed")

	if err.Error() != "already subscribed" {
		t.Errorf("expected 'already subscribed', got %q", err.Error())
	}

	wrapped := fmt.Errorf("subscribe: %w", err)
	var ce *apperr.ConflictError
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As should find ConflictError through wrapping")
	}
}

func TestNewConflictWrap(t *testing.T) {
	inner := fmt.Errorf("duplicate key")
	err := apperr.NewConflictWrap("already subscribed", inner)

	if err.Error() != "already subscribed: duplicate key" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestNewNotFound(t *testing.T) {
	err := apperr.NewNotFound("article not found")

	if err.Error() != "article not found" {
		t.Errorf("expected 'article not found', got %q", err.Error())
	}

	var nfe *apperr.NotFoundError
	if !errors.As(fmt.Errorf("render: %w", err), &nfe) {
		t.Fatal("errors.As should find NotFoundError through wrapping")
	}
}

func TestConflictAndValidationAreDistinct(t *testing.T) {
	conflict := apperr.NewConflict("already subscribed")

	var ve *apperr.ValidationError
	if errors.As(conflict, &ve) {
		t.Fatal("ConflictError must not match ValidationError")
	}
}
