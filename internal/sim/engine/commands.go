package engine

import (
	"fmt"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/truck/cooking"
	"foodtruck.sim/internal/sim/truck/shop"
	"foodtruck.sim/internal/sim/tuning"
)

var (
	ErrUnknownItem    = protocol.NewError(protocol.ErrInvalidTarget, "unknown item")
	ErrBadCount       = protocol.NewError(protocol.ErrBadRequest, "count must be positive")
	ErrUnknownCommand = protocol.NewError(protocol.ErrBadRequest, "unknown command")
)

// Apply executes one driver command on the loop goroutine. Refusals leave
// state untouched and come back with a wire code.
func (e *Engine) Apply(cmd protocol.CommandMsg) protocol.ResultMsg {
	res := protocol.ResultMsg{
		Type: protocol.TypeResult,
		ID:   cmd.ID,
		Cmd:  cmd.Cmd,
		Tick: e.tick.Load(),
	}

	var err error
	switch cmd.Cmd {
	case protocol.CmdOpenBusiness:
		e.OpenBusiness()
	case protocol.CmdCloseBusiness:
		e.CloseBusiness()
	case protocol.CmdToggleBusiness:
		e.ToggleBusiness()
	case protocol.CmdCook:
		err = e.Cook(cmd.RecipeID)
	case protocol.CmdServe:
		rc, serr := e.Serve(cmd.CustomerID)
		if err = serr; err == nil {
			res.Receipt = &protocol.ReceiptView{
				ID:        rc.ID.String(),
				Item:      rc.Item,
				Quantity:  rc.Quantity,
				UnitPrice: rc.UnitPrice,
				Total:     rc.Total,
				Balance:   rc.Balance,
			}
			res.CustomerID = cmd.CustomerID
		}
	case protocol.CmdBuyRecipe:
		_, err = e.BuyRecipe(cmd.RecipeID)
	case protocol.CmdSpawnCustomer:
		c, serr := e.SpawnCustomer(tuning.CustomerSpawn{
			Name:      cmd.Name,
			Home:      cmd.Home,
			OrderItem: cmd.ItemID,
			Quantity:  cmd.Count,
		})
		if err = serr; err == nil {
			res.CustomerID = c.Key()
		}
	case protocol.CmdRestock:
		res.Added, err = e.Restock(cmd.ItemID, cmd.Count)
	default:
		err = fmt.Errorf("%q: %w", cmd.Cmd, ErrUnknownCommand)
	}

	if err != nil {
		e.totals.refusals++
		res.Code = protocol.CodeFor(err)
		res.Message = err.Error()
		e.logger.Printf("%s %s refused: %v", cmd.Cmd, cmd.ID, err)
		return res
	}
	res.OK = true
	return res
}

// OpenBusiness admits every customer who is not already queued.
func (e *Engine) OpenBusiness() bool { return e.business.Open() }

// CloseBusiness evicts the whole queue and sends everyone home.
func (e *Engine) CloseBusiness() bool { return e.business.Close() }

func (e *Engine) ToggleBusiness() bool { return e.business.Toggle() }

// Cook starts recipeID on the pipeline.
func (e *Engine) Cook(recipeID string) error {
	r, ok := e.cats.Recipe(recipeID)
	if !ok {
		return fmt.Errorf("%s: %w", recipeID, cooking.ErrUnknownRecipe)
	}
	if err := e.cooking.Start(r); err != nil {
		return fmt.Errorf("cook %s: %w", recipeID, err)
	}
	e.audit(AuditEntry{Action: AuditCookStart, Recipe: r.RecipeID, Item: r.Result})
	return nil
}

// BuyRecipe purchases an unlock from the shop.
func (e *Engine) BuyRecipe(recipeID string) (shop.Purchase, error) {
	p, err := e.shop.Buy(recipeID)
	if err != nil {
		return p, err
	}
	e.audit(AuditEntry{Action: AuditPurchase, Recipe: p.RecipeID, Amount: -p.Price})
	return p, nil
}

// Restock delivers count units of itemID and reports how many fit.
func (e *Engine) Restock(itemID string, count int) (int, error) {
	it, ok := e.cats.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("%s: %w", itemID, ErrUnknownItem)
	}
	if count <= 0 {
		return 0, ErrBadCount
	}
	added := e.inv.Add(it, count)
	if added < count {
		e.logger.Printf("restock %s: inventory full, %d of %d delivered", itemID, added, count)
	}
	e.audit(AuditEntry{Action: AuditRestock, Item: it.ID, Quantity: added})
	return added, nil
}
