package engine

import (
	"fmt"
	"time"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/geom"
	"foodtruck.sim/internal/sim/truck/customers"
	"foodtruck.sim/internal/sim/truck/orders"
	"foodtruck.sim/internal/sim/truck/sales"
	"foodtruck.sim/internal/sim/tuning"
)

var (
	ErrUnknownCustomer = protocol.NewError(protocol.ErrInvalidTarget, "unknown customer")
	ErrNotHead         = protocol.NewError(protocol.ErrInvalidTarget, "customer is not at the head of the queue")
	ErrNoOrder         = protocol.NewError(protocol.ErrConflict, "customer has no active order")
	ErrNoDish          = protocol.NewError(protocol.ErrNoResource, "no unlocked dish to order")
)

// SpawnCustomer places a customer at its home. While the business is open it
// walks straight into the queue; otherwise it waits for the next opening.
func (e *Engine) SpawnCustomer(sp tuning.CustomerSpawn) (*customers.Customer, error) {
	item, qty, limit, err := e.rollOrder(sp)
	if err != nil {
		return nil, err
	}
	if sp.Name == "" {
		sp.Name = fmt.Sprintf("customer-%d", len(e.spawned)+1)
	}
	c := customers.New(sp.Name, geom.FromArray(sp.Home), item, qty, limit)
	c.OnTarget(func(c *customers.Customer, pos geom.Vec3) {
		e.mover.SetTargetPosition(c.Key(), pos)
	})
	c.Order.OnExpired(func(*orders.Order) { e.onOrderExpired(c) })
	e.mover.SetTargetPosition(c.Key(), c.Home)

	e.customers[c.Key()] = c
	e.spawned = append(e.spawned, c.Key())
	e.prefs[c.Key()] = sp
	e.audit(AuditEntry{Action: AuditSpawn, Actor: c.Name, Item: item.ID, Quantity: qty})

	if e.business.IsOpen() {
		e.queue.Enqueue(c)
	}
	return c, nil
}

// rollOrder picks what the customer wants this visit. Fixed preferences from
// the roster win over the seeded random choice.
func (e *Engine) rollOrder(sp tuning.CustomerSpawn) (*catalogs.ItemDef, int, time.Duration, error) {
	var item *catalogs.ItemDef
	if sp.OrderItem != "" {
		it, ok := e.cats.Item(sp.OrderItem)
		if !ok {
			return nil, 0, 0, fmt.Errorf("%s: %w", sp.OrderItem, ErrUnknownItem)
		}
		if _, ok := e.cats.RecipeForResult(it.ID); !ok {
			return nil, 0, 0, fmt.Errorf("%s: %w", it.ID, sales.ErrNotSellable)
		}
		item = it
	} else {
		unlocked := e.recipes.Unlocked()
		if len(unlocked) == 0 {
			return nil, 0, 0, ErrNoDish
		}
		r, _ := e.cats.Recipe(unlocked[e.rng.Intn(len(unlocked))])
		item = r.ResultItem
	}

	o := e.cfg.Orders
	qty := sp.Quantity
	if qty <= 0 {
		qty = o.QuantityMin + e.rng.Intn(o.QuantityMax-o.QuantityMin+1)
	}
	lo, hi := o.TimeLimitRange()
	limit := lo
	if hi > lo {
		limit += time.Duration(e.rng.Int63n(int64(hi-lo) + 1))
	}
	return item, qty, limit, nil
}

// sendHome releases c from the queue and prepares the order for its next visit.
func (e *Engine) sendHome(c *customers.Customer) {
	e.queue.Dequeue(c)
	c.RemovedFromQueue()
	e.nextVisit(c)
}

func (e *Engine) nextVisit(c *customers.Customer) {
	item, qty, limit, err := e.rollOrder(e.prefs[c.Key()])
	if err != nil {
		e.logger.Printf("customer %s: keeping previous order: %v", c.Name, err)
		c.NextVisit(c.Order.Item, c.Order.Quantity, c.Order.Limit())
		return
	}
	c.NextVisit(item, qty, limit)
}

func (e *Engine) onOrderExpired(c *customers.Customer) {
	e.totals.expired++
	e.audit(AuditEntry{Action: AuditOrderExpired, Actor: c.Name, Item: c.Order.Item.ID, Quantity: c.Order.Quantity})
	e.logger.Printf("customer %s gave up waiting for %dx %s", c.Name, c.Order.Quantity, c.Order.Item.ID)
	e.sendHome(c)
}

func (e *Engine) onBusinessChange(open bool) {
	if open {
		e.audit(AuditEntry{Action: AuditOpen})
		for _, c := range e.Customers() {
			if !c.InQueue() {
				e.queue.Enqueue(c)
			}
		}
		return
	}
	e.audit(AuditEntry{Action: AuditClose})
	members := e.queue.Members()
	e.queue.ClearAll()
	for _, m := range members {
		if c, ok := m.(*customers.Customer); ok {
			e.nextVisit(c)
		}
	}
}

// checkHeadArrival lets the head customer order once it reaches its spot.
func (e *Engine) checkHeadArrival() {
	if !e.business.IsOpen() {
		return
	}
	m, ok := e.queue.Head()
	if !ok {
		return
	}
	c, ok := m.(*customers.Customer)
	if !ok || c.HasPlacedOrder() {
		return
	}
	pos, ok := e.mover.Position(c.Key())
	if !ok || geom.Distance(pos, c.Target()) > e.cfg.Queue.ArrivalDistance {
		return
	}
	if c.PlaceOrder() {
		e.audit(AuditEntry{Action: AuditOrderPlaced, Actor: c.Name, Item: c.Order.Item.ID, Quantity: c.Order.Quantity})
	}
}

// Serve hands the head customer its order, settles the sale, and sends the
// customer home.
func (e *Engine) Serve(customerID string) (sales.Receipt, error) {
	c, ok := e.customers[customerID]
	if !ok {
		return sales.Receipt{}, ErrUnknownCustomer
	}
	if !e.queue.IsHead(c) {
		return sales.Receipt{}, ErrNotHead
	}
	if !c.HasPlacedOrder() || !c.Order.IsActive() {
		return sales.Receipt{}, ErrNoOrder
	}
	rc, err := e.sales.SellItem(c.Order.Item, c.Order.Quantity)
	if err != nil {
		return sales.Receipt{}, err
	}
	c.Order.Complete()
	e.audit(AuditEntry{
		Action:   AuditSale,
		Actor:    c.Name,
		Item:     rc.Item,
		Quantity: rc.Quantity,
		Amount:   rc.Total,
		Receipt:  rc.ID.String(),
	})
	e.sendHome(c)
	return rc, nil
}
