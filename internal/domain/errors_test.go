package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	base := errors.New("boom")
	cases := []struct {
		err   error
		check func(error) bool
	}{
		{NotFoundError{Resource: "booking"}, IsNotFound},
		{ValidationError{Field: "rooms", Msg: "must be greater than 0"}, IsValidation},
		{ConflictError{Resource: "booking", Kind: ConflictDuplicate}, IsConflict},
		{TransientError{Op: "create", Err: base}, IsTransient},
		{InternalError{Msg: "x", Err: base}, IsInternal},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !tc.check(wrapped) {
			t.Fatalf("helper did not match wrapped %T", tc.err)
		}
	}
}

func TestInsufficientInventoryIsAConflictKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ConflictError{Resource: "package", Kind: ConflictInventory})
	if !IsConflict(err) || !IsInsufficientInventory(err) {
		t.Fatalf("expected inventory conflict, got %v", err)
	}
	if IsInsufficientInventory(ConflictError{Kind: ConflictDuplicate}) {
		t.Fatalf("duplicate conflict must not read as inventory")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "booking_to", Msg: "must be after booking_from"}
	if got := err.Error(); got != "booking_to: must be after booking_from" {
		t.Fatalf("unexpected message %q", got)
	}
}
