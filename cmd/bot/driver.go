package main

import (
	"fmt"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
)

// driver plays the truck: open up, cook what the head customer ordered,
// restock missing ingredients and serve. It keeps one command batch in flight.
type driver struct {
	cats    *catalogs.Catalogs
	seq     int
	pending map[string]bool
}

func newDriver(cats *catalogs.Catalogs) *driver {
	return &driver{cats: cats, pending: map[string]bool{}}
}

func (d *driver) Next(snap *protocol.Snapshot) []protocol.CommandMsg {
	for _, r := range snap.Results {
		delete(d.pending, r.ID)
	}
	if len(d.pending) > 0 {
		return nil
	}
	cmds := d.plan(snap)
	for _, c := range cmds {
		d.pending[c.ID] = true
	}
	return cmds
}

func (d *driver) plan(snap *protocol.Snapshot) []protocol.CommandMsg {
	if !snap.BusinessOpen {
		return []protocol.CommandMsg{d.cmd(protocol.CmdOpenBusiness)}
	}

	head, ok := queueHead(snap)
	if !ok {
		return nil
	}
	if countItem(snap, head.OrderItem) >= head.Quantity {
		c := d.cmd(protocol.CmdServe)
		c.CustomerID = head.ID
		return []protocol.CommandMsg{c}
	}
	if snap.Cooking.Cooking {
		return nil
	}

	r, ok := d.cats.RecipeForResult(head.OrderItem)
	if !ok {
		return nil
	}
	if !contains(snap.Unlocked, r.RecipeID) {
		for _, e := range snap.Shop {
			if e.RecipeID == r.RecipeID && e.Affordable && !e.Unlocked {
				c := d.cmd(protocol.CmdBuyRecipe)
				c.RecipeID = r.RecipeID
				return []protocol.CommandMsg{c}
			}
		}
		return nil
	}
	var out []protocol.CommandMsg
	for _, in := range r.Ingredients {
		if have := countItem(snap, in.Item); have < in.Count {
			c := d.cmd(protocol.CmdRestock)
			c.ItemID = in.Item
			c.Count = in.Count - have
			out = append(out, c)
		}
	}
	c := d.cmd(protocol.CmdCook)
	c.RecipeID = r.RecipeID
	return append(out, c)
}

func (d *driver) cmd(name string) protocol.CommandMsg {
	d.seq++
	return protocol.CommandMsg{
		Type:            protocol.TypeCommand,
		ProtocolVersion: protocol.Version,
		ID:              fmt.Sprintf("B%d", d.seq),
		Cmd:             name,
	}
}

func queueHead(snap *protocol.Snapshot) (protocol.CustomerView, bool) {
	for _, c := range snap.Customers {
		if c.InQueue && c.QueueIndex == 0 && c.OrderState == "ACTIVE" {
			return c, true
		}
	}
	return protocol.CustomerView{}, false
}

func countItem(snap *protocol.Snapshot, itemID string) int {
	n := 0
	for _, sl := range snap.Inventory {
		if sl.Item == itemID {
			n += sl.Count
		}
	}
	return n
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
