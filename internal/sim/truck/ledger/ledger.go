// Package ledger holds the truck's money balance.
package ledger

import (
	"errors"
	"math"

	"foodtruck.sim/internal/sim/notify"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
)

// Ledger is a non-negative balance. Every debit is checked against the balance first.
type Ledger struct {
	balance int64
	changed notify.Hub[int64]
}

func New(opening int64) (*Ledger, error) {
	if opening < 0 {
		return nil, ErrInvalidAmount
	}
	return &Ledger{balance: opening}, nil
}

func (l *Ledger) Balance() int64 { return l.balance }

// OnChange receives the new balance after every successful credit or debit.
func (l *Ledger) OnChange(fn func(balance int64)) (cancel func()) {
	return l.changed.Subscribe(fn)
}

func (l *Ledger) CanAfford(amount int64) bool { return l.balance >= amount }

func (l *Ledger) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > math.MaxInt64-l.balance {
		return ErrOverflow
	}
	l.balance += amount
	l.changed.Emit(l.balance)
	return nil
}

func (l *Ledger) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !l.CanAfford(amount) {
		return ErrInsufficientFunds
	}
	l.balance -= amount
	l.changed.Emit(l.balance)
	return nil
}
