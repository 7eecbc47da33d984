// Package shop sells recipe unlocks for money.
package shop

import (
	"errors"
	"fmt"
	"io"
	"log"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
)

var (
	ErrNotInShop         = errors.New("recipe not sold in shop")
	ErrAlreadyUnlocked   = errors.New("recipe already unlocked")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnlockFailed      = errors.New("unlock failed")
)

// Unlocker is the part of recipes.Registry the shop needs.
type Unlocker interface {
	IsUnlocked(recipeID string) bool
	Unlock(recipeID string) error
}

// Wallet is the part of ledger.Ledger the shop needs.
type Wallet interface {
	CanAfford(amount int64) bool
	Debit(amount int64) error
	Credit(amount int64) error
}

type Purchase struct {
	RecipeID string
	Price    int64
}

type Shop struct {
	catalog  *catalogs.ShopCatalog
	unlocker Unlocker
	wallet   Wallet
	logger   *log.Logger

	purchased notify.Hub[Purchase]
}

func New(catalog *catalogs.ShopCatalog, unlocker Unlocker, wallet Wallet, logger *log.Logger) *Shop {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Shop{catalog: catalog, unlocker: unlocker, wallet: wallet, logger: logger}
}

func (s *Shop) OnPurchase(fn func(Purchase)) (cancel func()) { return s.purchased.Subscribe(fn) }

// Entries lists the shop in catalog order.
func (s *Shop) Entries() []catalogs.ShopEntry {
	return append([]catalogs.ShopEntry(nil), s.catalog.Entries...)
}

// Check reports why recipeID cannot be bought now, or nil.
func (s *Shop) Check(recipeID string) error {
	e, ok := s.catalog.ByRecipe[recipeID]
	if !ok {
		return fmt.Errorf("%s: %w", recipeID, ErrNotInShop)
	}
	if s.unlocker.IsUnlocked(recipeID) {
		return fmt.Errorf("%s: %w", recipeID, ErrAlreadyUnlocked)
	}
	if !s.wallet.CanAfford(e.Price) {
		return fmt.Errorf("%s costs %d: %w", recipeID, e.Price, ErrInsufficientFunds)
	}
	return nil
}

func (s *Shop) CanPurchase(recipeID string) bool { return s.Check(recipeID) == nil }

// Buy debits the price and unlocks the recipe. A failed unlock refunds the price.
func (s *Shop) Buy(recipeID string) (Purchase, error) {
	if err := s.Check(recipeID); err != nil {
		return Purchase{}, err
	}
	e := s.catalog.ByRecipe[recipeID]
	if err := s.wallet.Debit(e.Price); err != nil {
		return Purchase{}, fmt.Errorf("%s: %w", recipeID, err)
	}
	if err := s.unlocker.Unlock(recipeID); err != nil {
		if rerr := s.wallet.Credit(e.Price); rerr != nil {
			s.logger.Printf("refund of %d for %s failed: %v", e.Price, recipeID, rerr)
		}
		return Purchase{}, fmt.Errorf("%s: %w: %v", recipeID, ErrUnlockFailed, err)
	}
	p := Purchase{RecipeID: recipeID, Price: e.Price}
	s.purchased.Emit(p)
	return p, nil
}
