// Package customers models the people who walk up to the truck.
package customers

import (
	"time"

	"github.com/google/uuid"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/geom"
	"foodtruck.sim/internal/sim/truck/orders"
)

// Customer is reset between visits, never destroyed.
type Customer struct {
	ID    uuid.UUID
	Name  string
	Home  geom.Vec3
	Order *orders.Order

	target         geom.Vec3
	inQueue        bool
	hasPlacedOrder bool

	// Called with the new target whenever the queue moves this customer.
	onTarget func(c *Customer, pos geom.Vec3)
}

func New(name string, home geom.Vec3, item *catalogs.ItemDef, quantity int, limit time.Duration) *Customer {
	return &Customer{
		ID:     uuid.New(),
		Name:   name,
		Home:   home,
		Order:  orders.New(item, quantity, limit),
		target: home,
	}
}

// OnTarget installs the movement hook. The engine forwards targets to its mover.
func (c *Customer) OnTarget(fn func(c *Customer, pos geom.Vec3)) { c.onTarget = fn }

func (c *Customer) Key() string { return c.ID.String() }

func (c *Customer) Target() geom.Vec3 { return c.target }

func (c *Customer) InQueue() bool { return c.inQueue }

func (c *Customer) HasPlacedOrder() bool { return c.hasPlacedOrder }

func (c *Customer) SetTargetPosition(pos geom.Vec3) {
	c.inQueue = true
	c.moveTo(pos)
}

func (c *Customer) moveTo(pos geom.Vec3) {
	c.target = pos
	if c.onTarget != nil {
		c.onTarget(c, pos)
	}
}

// RemovedFromQueue stops the order timer and sends the customer home.
func (c *Customer) RemovedFromQueue() {
	c.Order.Deactivate()
	c.inQueue = false
	c.hasPlacedOrder = false
	c.moveTo(c.Home)
}

// PlaceOrder starts the order timer. It is a no-op once the order is placed.
func (c *Customer) PlaceOrder() bool {
	if c.hasPlacedOrder {
		return false
	}
	c.hasPlacedOrder = true
	c.Order.Activate()
	return true
}

// NextVisit replaces the order for the customer's next trip to the truck.
func (c *Customer) NextVisit(item *catalogs.ItemDef, quantity int, limit time.Duration) {
	c.Order.Reset(item, quantity, limit)
	c.hasPlacedOrder = false
}
