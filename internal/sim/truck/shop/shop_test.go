package shop

import (
	"errors"
	"testing"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/truck/ledger"
	"foodtruck.sim/internal/sim/truck/recipes"
)

type brokenUnlocker struct{}

func (brokenUnlocker) IsUnlocked(string) bool { return false }
func (brokenUnlocker) Unlock(string) error    { return errors.New("registry offline") }

func fixture() (*catalogs.ShopCatalog, map[string]*catalogs.RecipeDef) {
	known := map[string]*catalogs.RecipeDef{
		"hotteok": {RecipeID: "hotteok"},
		"pajeon":  {RecipeID: "pajeon"},
	}
	var cat catalogs.ShopCatalog
	rc := &catalogs.RecipeCatalog{ByID: known}
	if err := catalogs.BuildShop([]catalogs.ShopEntry{{RecipeID: "hotteok", Price: 150}, {RecipeID: "pajeon", Price: 300}}, rc, &cat); err != nil {
		panic(err)
	}
	return &cat, known
}

func TestFailedUnlockRefunds(t *testing.T) {
	cat, _ := fixture()
	l, _ := ledger.New(200)
	s := New(cat, brokenUnlocker{}, l, nil)

	_, err := s.Buy("hotteok")
	if !errors.Is(err, ErrUnlockFailed) {
		t.Fatalf("expected unlock failure, got %v", err)
	}
	if l.Balance() != 200 {
		t.Fatalf("price not refunded: balance=%d", l.Balance())
	}
}

func TestBuyUnlocksOnce(t *testing.T) {
	cat, known := fixture()
	reg, _ := recipes.New(known, nil)
	l, _ := ledger.New(200)
	s := New(cat, reg, l, nil)

	var bought []Purchase
	s.OnPurchase(func(p Purchase) { bought = append(bought, p) })

	if s.CanPurchase("pajeon") {
		t.Fatalf("pajeon must be unaffordable")
	}
	if _, err := s.Buy("pajeon"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	p, err := s.Buy("hotteok")
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if p.Price != 150 || l.Balance() != 50 || !reg.IsUnlocked("hotteok") {
		t.Fatalf("purchase not applied: %+v balance=%d", p, l.Balance())
	}
	if _, err := s.Buy("hotteok"); !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("expected already unlocked, got %v", err)
	}
	if _, err := s.Buy("bibimbap"); !errors.Is(err, ErrNotInShop) {
		t.Fatalf("expected not in shop, got %v", err)
	}
	if len(bought) != 1 || l.Balance() != 50 {
		t.Fatalf("purchases=%d balance=%d", len(bought), l.Balance())
	}
	if len(s.Entries()) != 2 {
		t.Fatalf("entries: %v", s.Entries())
	}
}

// staleWallet approves the affordability check but refuses the debit.
type staleWallet struct{ debitErr error }

func (w staleWallet) CanAfford(int64) bool { return true }
func (w staleWallet) Debit(int64) error    { return w.debitErr }
func (w staleWallet) Credit(int64) error   { return nil }

func TestDebitFailureKeepsCause(t *testing.T) {
	cat, known := fixture()
	reg, _ := recipes.New(known, nil)

	s := New(cat, reg, staleWallet{debitErr: ledger.ErrInsufficientFunds}, nil)
	if _, err := s.Buy("hotteok"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ledger insufficient funds, got %v", err)
	}

	offline := errors.New("wallet offline")
	s = New(cat, reg, staleWallet{debitErr: offline}, nil)
	_, err := s.Buy("hotteok")
	if !errors.Is(err, offline) || errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected the wallet error, got %v", err)
	}
	if reg.IsUnlocked("hotteok") {
		t.Fatalf("recipe unlocked without payment")
	}
}
