package engine

import "foodtruck.sim/internal/protocol"

// Snapshot builds the UI view of the current state. Loop goroutine only;
// other goroutines use Latest.
func (e *Engine) Snapshot() protocol.Snapshot {
	snap := protocol.Snapshot{
		Type:            protocol.TypeSnapshot,
		ProtocolVersion: protocol.Version,
		Tick:            e.tick.Load(),
		Money:           e.ledger.Balance(),
		BusinessOpen:    e.business.IsOpen(),
		Unlocked:        e.recipes.Unlocked(),
	}

	for i, sl := range e.inv.Slots() {
		v := protocol.SlotView{Index: i, Count: sl.Count}
		if !sl.IsEmpty() {
			v.Item = sl.Item.ID
			v.Name = sl.Item.DisplayName
			v.MaxStack = sl.Item.MaxStack
		}
		snap.Inventory = append(snap.Inventory, v)
	}

	st := e.cooking.Status()
	snap.Cooking = protocol.CookingView{
		Cooking:     st.Cooking,
		RecipeID:    st.RecipeID,
		RecipeName:  st.RecipeName,
		TotalMS:     st.Total.Milliseconds(),
		RemainingMS: st.Remaining.Milliseconds(),
		Progress:    st.Progress,
	}

	for _, en := range e.shop.Entries() {
		snap.Shop = append(snap.Shop, protocol.ShopView{
			RecipeID:   en.RecipeID,
			Price:      en.Price,
			Unlocked:   e.recipes.IsUnlocked(en.RecipeID),
			Affordable: e.ledger.CanAfford(en.Price),
		})
	}

	snap.Queue = make([]string, 0, e.queue.Len())
	for _, m := range e.queue.Members() {
		snap.Queue = append(snap.Queue, m.Key())
	}

	for _, c := range e.Customers() {
		v := protocol.CustomerView{
			ID:          c.Key(),
			Name:        c.Name,
			InQueue:     c.InQueue(),
			QueueIndex:  e.queue.Position(c),
			Quantity:    c.Order.Quantity,
			OrderState:  c.Order.State().String(),
			TimeRatio:   c.Order.TimeRatio(),
			RemainingMS: c.Order.Remaining().Milliseconds(),
		}
		if c.Order.Item != nil {
			v.OrderItem = c.Order.Item.ID
		}
		if p, ok := e.mover.Position(c.Key()); ok {
			v.Pos = [3]float64{p.X, p.Y, p.Z}
		}
		snap.Customers = append(snap.Customers, v)
	}
	return snap
}

// publish stores the current snapshot for Latest and returns it.
func (e *Engine) publish() protocol.Snapshot {
	snap := e.Snapshot()
	e.latest.Store(snap)
	return snap
}
