package protocol

import (
	"errors"

	"foodtruck.sim/internal/sim/truck/cooking"
	"foodtruck.sim/internal/sim/truck/ledger"
	"foodtruck.sim/internal/sim/truck/recipes"
	"foodtruck.sim/internal/sim/truck/sales"
	"foodtruck.sim/internal/sim/truck/shop"
)

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Rule layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoPermission  = "E_NO_PERMISSION"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrConflict      = "E_CONFLICT"
	ErrBlocked       = "E_BLOCKED"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrNoPermission:    {},
	ErrNoResource:      {},
	ErrInvalidTarget:   {},
	ErrConflict:        {},
	ErrBlocked:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// Error is a refusal that already knows its wire code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError returns a refusal with a fixed code, for use as a sentinel.
func NewError(code, msg string) *Error { return &Error{Code: code, Message: msg} }

var codeTable = []struct {
	err  error
	code string
}{
	{cooking.ErrBusy, ErrConflict},
	{cooking.ErrRecipeLocked, ErrNoPermission},
	{cooking.ErrMissingIngredients, ErrNoResource},
	{cooking.ErrUnknownRecipe, ErrInvalidTarget},
	{ledger.ErrInsufficientFunds, ErrNoResource},
	{ledger.ErrInvalidAmount, ErrBadRequest},
	{ledger.ErrOverflow, ErrConflict},
	{recipes.ErrUnknownRecipe, ErrInvalidTarget},
	{recipes.ErrAlreadyUnlocked, ErrConflict},
	{sales.ErrConsistency, ErrInternal},
	{sales.ErrInsufficientStock, ErrNoResource},
	{sales.ErrNotSellable, ErrInvalidTarget},
	{sales.ErrInvalidSale, ErrBadRequest},
	{shop.ErrUnlockFailed, ErrInternal},
	{shop.ErrNotInShop, ErrInvalidTarget},
	{shop.ErrAlreadyUnlocked, ErrConflict},
	{shop.ErrInsufficientFunds, ErrNoResource},
}

// CodeFor maps a refusal to its wire code. Unrecognized errors are E_INTERNAL.
func CodeFor(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ErrInternal
}
