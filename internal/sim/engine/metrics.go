package engine

import "time"

// Metrics is a read-only view of runtime counters. It is written by the loop
// goroutine and read from HTTP handlers.
type Metrics struct {
	Tick         uint64  `json:"tick"`
	Money        int64   `json:"money"`
	BusinessOpen bool    `json:"business_open"`
	QueueLen     int     `json:"queue_len"`
	Customers    int     `json:"customers"`
	Sessions     int     `json:"sessions"`
	Unlocked     int     `json:"unlocked_recipes"`
	Cooking      bool    `json:"cooking"`
	InboxDepth   int     `json:"inbox_depth"`
	StepMS       float64 `json:"step_ms"`

	SalesTotal    uint64 `json:"sales_total"`
	Revenue       int64  `json:"revenue"`
	Spend         int64  `json:"spend"`
	ExpiredTotal  uint64 `json:"expired_total"`
	CookedTotal   uint64 `json:"cooked_total"`
	LostDishTotal uint64 `json:"lost_dish_total"`
	RefusalsTotal uint64 `json:"refusals_total"`
}

func (e *Engine) Metrics() Metrics {
	if e == nil {
		return Metrics{}
	}
	m, _ := e.metrics.Load().(Metrics)
	return m
}

func (e *Engine) storeMetrics(stepDur time.Duration) {
	e.metrics.Store(Metrics{
		Tick:          e.tick.Load(),
		Money:         e.ledger.Balance(),
		BusinessOpen:  e.business.IsOpen(),
		QueueLen:      e.queue.Len(),
		Customers:     len(e.spawned),
		Sessions:      len(e.sessions),
		Unlocked:      e.recipes.Count(),
		Cooking:       e.cooking.IsCooking(),
		InboxDepth:    len(e.inbox),
		StepMS:        float64(stepDur.Microseconds()) / 1000,
		SalesTotal:    e.totals.sales,
		Revenue:       e.totals.revenue,
		Spend:         e.totals.spend,
		ExpiredTotal:  e.totals.expired,
		CookedTotal:   e.totals.cooked,
		LostDishTotal: e.totals.lostDish,
		RefusalsTotal: e.totals.refusals,
	})
}
