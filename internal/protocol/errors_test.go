package protocol

import (
	"errors"
	"fmt"
	"testing"

	"foodtruck.sim/internal/sim/truck/cooking"
	"foodtruck.sim/internal/sim/truck/ledger"
	"foodtruck.sim/internal/sim/truck/sales"
	"foodtruck.sim/internal/sim/truck/shop"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrBadRequest,
		ErrNoPermission,
		ErrNoResource,
		ErrInvalidTarget,
		ErrConflict,
		ErrBlocked,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeFor(t *testing.T) {
	notHead := NewError(ErrInvalidTarget, "not at head")
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{cooking.ErrBusy, ErrConflict},
		{fmt.Errorf("cook tteokbokki: %w", cooking.ErrMissingIngredients), ErrNoResource},
		{fmt.Errorf("pajeon: %w", shop.ErrInsufficientFunds), ErrNoResource},
		{fmt.Errorf("hotteok: %w", ledger.ErrInsufficientFunds), ErrNoResource},
		{fmt.Errorf("sale: %w", ledger.ErrOverflow), ErrConflict},
		{fmt.Errorf("hotteok: %w: boom", shop.ErrUnlockFailed), ErrInternal},
		{fmt.Errorf("EOMUK: %w", sales.ErrConsistency), ErrInternal},
		{fmt.Errorf("serve: %w", notHead), ErrInvalidTarget},
		{errors.New("mystery"), ErrInternal},
	}
	for _, c := range cases {
		got := CodeFor(c.err)
		if got != c.want {
			t.Fatalf("CodeFor(%v)=%q want %q", c.err, got, c.want)
		}
		if !IsKnownCode(got) {
			t.Fatalf("CodeFor returned unknown code %q", got)
		}
	}
}
