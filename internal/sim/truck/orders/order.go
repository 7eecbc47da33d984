// Package orders implements a customer's timed order.
package orders

import (
	"time"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
)

type State uint8

const (
	Inactive State = iota
	Active
	Completed
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Completed:
		return "COMPLETED"
	case Expired:
		return "EXPIRED"
	default:
		return "INACTIVE"
	}
}

// Order counts down only while Active. Expiry fires once per activation.
type Order struct {
	Item     *catalogs.ItemDef
	Quantity int

	limit     time.Duration
	remaining time.Duration
	state     State

	expired notify.Hub[*Order]
}

func New(item *catalogs.ItemDef, quantity int, limit time.Duration) *Order {
	return &Order{Item: item, Quantity: quantity, limit: limit, remaining: limit}
}

func (o *Order) OnExpired(fn func(*Order)) (cancel func()) { return o.expired.Subscribe(fn) }

func (o *Order) State() State { return o.state }

func (o *Order) IsActive() bool { return o.state == Active }

func (o *Order) Limit() time.Duration { return o.limit }

func (o *Order) Remaining() time.Duration { return o.remaining }

// Reset replaces the order contents and returns it to Inactive.
func (o *Order) Reset(item *catalogs.ItemDef, quantity int, limit time.Duration) {
	o.Item = item
	o.Quantity = quantity
	o.limit = limit
	o.remaining = limit
	o.state = Inactive
}

// Activate restarts the countdown from the full limit. Legal from any state.
func (o *Order) Activate() {
	o.remaining = o.limit
	o.state = Active
}

func (o *Order) Deactivate() {
	if o.state == Active {
		o.state = Inactive
	}
}

func (o *Order) Complete() {
	if o.state == Active {
		o.state = Completed
	}
}

func (o *Order) Advance(dt time.Duration) {
	if o.state != Active || dt < 0 {
		return
	}
	o.remaining -= dt
	if o.remaining > 0 {
		return
	}
	o.remaining = 0
	o.state = Expired
	o.expired.Emit(o)
}

// TimeRatio is remaining/limit clamped to [0,1], or 1 for a non-positive limit.
func (o *Order) TimeRatio() float64 {
	if o.limit <= 0 {
		return 1
	}
	r := float64(o.remaining) / float64(o.limit)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
