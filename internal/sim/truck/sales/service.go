// Package sales settles dish sales against the inventory and the ledger.
package sales

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/google/uuid"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
)

var (
	ErrInvalidSale       = errors.New("invalid sale")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotSellable       = errors.New("no recipe produces this item")
	// ErrConsistency means the inventory reported stock it could not hand over.
	ErrConsistency = errors.New("inventory consistency violation")
)

// Stock is the slice of inventory.Store a sale touches.
type Stock interface {
	HasItem(item *catalogs.ItemDef, amount int) bool
	Remove(item *catalogs.ItemDef, amount int) int
	Add(item *catalogs.ItemDef, amount int) int
}

// Till is the slice of ledger.Ledger a sale touches.
type Till interface {
	Credit(amount int64) error
	Balance() int64
}

type Receipt struct {
	ID        uuid.UUID
	Item      string
	Quantity  int
	UnitPrice int64
	Total     int64
	Balance   int64
}

type Service struct {
	stock   Stock
	till    Till
	recipes *catalogs.RecipeCatalog
	logger  *log.Logger

	sold notify.Hub[Receipt]
}

func New(stock Stock, till Till, recipes *catalogs.RecipeCatalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{stock: stock, till: till, recipes: recipes, logger: logger}
}

func (s *Service) OnSold(fn func(Receipt)) (cancel func()) { return s.sold.Subscribe(fn) }

func (s *Service) CanSell(item *catalogs.ItemDef, quantity int) bool {
	return item != nil && quantity > 0 && s.stock.HasItem(item, quantity)
}

// ProcessSale removes quantity units of item and credits quantity*unitPrice.
// Nothing changes when it returns an error.
func (s *Service) ProcessSale(item *catalogs.ItemDef, quantity int, unitPrice int64) (Receipt, error) {
	if item == nil || quantity <= 0 || unitPrice <= 0 {
		return Receipt{}, ErrInvalidSale
	}
	if int64(quantity) > math.MaxInt64/unitPrice {
		return Receipt{}, fmt.Errorf("%s x%d at %d: total overflows: %w", item.ID, quantity, unitPrice, ErrInvalidSale)
	}
	if !s.stock.HasItem(item, quantity) {
		return Receipt{}, fmt.Errorf("%s x%d: %w", item.ID, quantity, ErrInsufficientStock)
	}

	removed := s.stock.Remove(item, quantity)
	if removed != quantity {
		if removed > 0 {
			s.stock.Add(item, removed)
		}
		s.logger.Printf("CONSISTENCY: %s reported %d in stock but removed %d; sale cancelled", item.ID, quantity, removed)
		return Receipt{}, fmt.Errorf("%s: %w", item.ID, ErrConsistency)
	}

	total := unitPrice * int64(quantity)
	if err := s.till.Credit(total); err != nil {
		s.stock.Add(item, removed)
		return Receipt{}, fmt.Errorf("credit %d for %s: %w", total, item.ID, err)
	}

	rc := Receipt{
		ID:        uuid.New(),
		Item:      item.ID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     total,
		Balance:   s.till.Balance(),
	}
	s.sold.Emit(rc)
	return rc, nil
}

// SellRecipeResult sells the recipe's dish at the recipe price.
func (s *Service) SellRecipeResult(recipe *catalogs.RecipeDef, quantity int) (Receipt, error) {
	if recipe == nil || recipe.ResultItem == nil {
		return Receipt{}, ErrInvalidSale
	}
	return s.ProcessSale(recipe.ResultItem, quantity, recipe.Price)
}

// SellItem prices item by the recipe that produces it.
func (s *Service) SellItem(item *catalogs.ItemDef, quantity int) (Receipt, error) {
	if item == nil {
		return Receipt{}, ErrInvalidSale
	}
	var r *catalogs.RecipeDef
	if s.recipes != nil {
		r = s.recipes.ByResult[item.ID]
	}
	if r == nil {
		return Receipt{}, fmt.Errorf("%s: %w", item.ID, ErrNotSellable)
	}
	return s.SellRecipeResult(r, quantity)
}
