// Package engine owns every truck service and drives them from a single loop.
package engine

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/geom"
	"foodtruck.sim/internal/sim/movement"
	"foodtruck.sim/internal/sim/truck/business"
	"foodtruck.sim/internal/sim/truck/cooking"
	"foodtruck.sim/internal/sim/truck/customers"
	"foodtruck.sim/internal/sim/truck/inventory"
	"foodtruck.sim/internal/sim/truck/ledger"
	"foodtruck.sim/internal/sim/truck/queue"
	"foodtruck.sim/internal/sim/truck/recipes"
	"foodtruck.sim/internal/sim/truck/sales"
	"foodtruck.sim/internal/sim/truck/shop"
	"foodtruck.sim/internal/sim/tuning"
)

// Mover is the navigation collaborator. Positions are pulled once per tick.
type Mover interface {
	SetTargetPosition(id string, pos geom.Vec3)
	Position(id string) (geom.Vec3, bool)
	Advance(dt time.Duration)
}

// Engine is single-threaded. All state must be accessed only from the loop
// goroutine, or from tests that drive it with StepOnce.
type Engine struct {
	cfg    tuning.Tuning
	cats   *catalogs.Catalogs
	mover  Mover
	logger *log.Logger
	rng    *rand.Rand

	tick atomic.Uint64

	inv      *inventory.Store
	ledger   *ledger.Ledger
	recipes  *recipes.Registry
	cooking  *cooking.Pipeline
	queue    *queue.Scheduler
	business *business.State
	sales    *sales.Service
	shop     *shop.Shop

	customers map[string]*customers.Customer
	spawned   []string
	prefs     map[string]tuning.CustomerSpawn

	inbox chan CommandEnvelope
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	sessions    map[string]*session
	nextSession atomic.Uint64

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	latest  atomic.Value // protocol.Snapshot
	metrics atomic.Value // Metrics
	totals  totals
}

type totals struct {
	sales    uint64
	revenue  int64
	spend    int64
	expired  uint64
	cooked   uint64
	lostDish uint64
	refusals uint64
}

// New builds the services from tuning and spawns the configured customers.
// A nil mover gets a movement.Linear at the tuned walk speed. A nil logger discards.
func New(cfg tuning.Tuning, cats *catalogs.Catalogs, mover Mover, logger *log.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if mover == nil {
		mover = movement.NewLinear(cfg.Queue.WalkSpeed)
	}

	l, err := ledger.New(cfg.StartingMoney)
	if err != nil {
		return nil, fmt.Errorf("starting_money: %w", err)
	}
	reg, err := recipes.New(cats.Recipes.ByID, cfg.DefaultUnlocked)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		cats:      cats,
		mover:     mover,
		logger:    logger,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		inv:       inventory.New(cfg.InventoryCapacity),
		ledger:    l,
		recipes:   reg,
		business:  &business.State{},
		customers: map[string]*customers.Customer{},
		prefs:     map[string]tuning.CustomerSpawn{},
		inbox:     make(chan CommandEnvelope, 1024),
		join:      make(chan JoinRequest, 64),
		leave:     make(chan string, 64),
		stop:      make(chan struct{}),
		sessions:  map[string]*session{},
	}
	e.cooking = cooking.New(e.inv, reg, subLogger(logger, "[cooking] "))
	e.queue = queue.New(queue.Config{
		Anchor:    geom.FromArray(cfg.Queue.Anchor),
		Direction: geom.FromArray(cfg.Queue.Direction),
		Spacing:   cfg.Queue.Spacing,
	})
	e.sales = sales.New(e.inv, l, &cats.Recipes, subLogger(logger, "[sales] "))
	e.shop = shop.New(&cats.Shop, reg, l, subLogger(logger, "[shop] "))

	if err := e.stockStarterItems(); err != nil {
		return nil, err
	}
	e.wire()

	for _, sp := range cfg.Customers {
		if _, err := e.SpawnCustomer(sp); err != nil {
			return nil, fmt.Errorf("customer %q: %w", sp.Name, err)
		}
	}
	e.publish()
	return e, nil
}

func subLogger(l *log.Logger, prefix string) *log.Logger {
	return log.New(l.Writer(), prefix, l.Flags())
}

func (e *Engine) stockStarterItems() error {
	ids := make([]string, 0, len(e.cfg.StarterItems))
	for id := range e.cfg.StarterItems {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		it, ok := e.cats.Item(id)
		if !ok {
			return fmt.Errorf("starter_items: unknown item %s", id)
		}
		want := e.cfg.StarterItems[id]
		if got := e.inv.Add(it, want); got < want {
			e.logger.Printf("starter_items: only %d of %d %s fit", got, want, id)
		}
	}
	return nil
}

// wire subscribes the engine to the service notifications it reacts to.
func (e *Engine) wire() {
	e.business.OnChange(e.onBusinessChange)
	e.cooking.OnCompleted(func(c cooking.Completion) {
		e.totals.cooked++
		if c.Added < c.Recipe.ResultAmount {
			e.totals.lostDish += uint64(c.Recipe.ResultAmount - c.Added)
		}
		e.audit(AuditEntry{Action: AuditCookDone, Recipe: c.Recipe.RecipeID, Item: c.Recipe.Result, Quantity: c.Added})
	})
	e.sales.OnSold(func(rc sales.Receipt) {
		e.totals.sales++
		e.totals.revenue += rc.Total
	})
	e.shop.OnPurchase(func(p shop.Purchase) {
		e.totals.spend += p.Price
	})
}

func (e *Engine) SetTickLogger(l TickLogger)   { e.tickLogger = l }
func (e *Engine) SetAuditLogger(l AuditLogger) { e.auditLogger = l }

func (e *Engine) Inbox() chan<- CommandEnvelope { return e.inbox }
func (e *Engine) Join() chan<- JoinRequest      { return e.join }
func (e *Engine) Leave() chan<- string          { return e.leave }

func (e *Engine) CurrentTick() uint64 { return e.tick.Load() }

func (e *Engine) Tuning() tuning.Tuning { return e.cfg }

func (e *Engine) Catalogs() *catalogs.Catalogs { return e.cats }

func (e *Engine) Inventory() *inventory.Store { return e.inv }
func (e *Engine) Ledger() *ledger.Ledger      { return e.ledger }
func (e *Engine) Recipes() *recipes.Registry  { return e.recipes }
func (e *Engine) Cooking() *cooking.Pipeline  { return e.cooking }
func (e *Engine) Queue() *queue.Scheduler     { return e.queue }
func (e *Engine) Business() *business.State   { return e.business }
func (e *Engine) Sales() *sales.Service       { return e.sales }
func (e *Engine) Shop() *shop.Shop            { return e.shop }

func (e *Engine) Customer(id string) (*customers.Customer, bool) {
	c, ok := e.customers[id]
	return c, ok
}

// Customers returns every customer in spawn order.
func (e *Engine) Customers() []*customers.Customer {
	out := make([]*customers.Customer, 0, len(e.spawned))
	for _, id := range e.spawned {
		out = append(out, e.customers[id])
	}
	return out
}

// Latest is the snapshot published at the end of the previous tick. Safe from any goroutine.
func (e *Engine) Latest() protocol.Snapshot {
	v, _ := e.latest.Load().(protocol.Snapshot)
	return v
}
