package engine

import "foodtruck.sim/internal/protocol"

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64            `json:"tick"`
	Commands []RecordedCommand `json:"commands,omitempty"`
	Money    int64             `json:"money"`
	Open     bool              `json:"open"`
	QueueLen int               `json:"queue_len"`
	Cooking  string            `json:"cooking,omitempty"`
}

type RecordedCommand struct {
	SessionID string              `json:"session_id,omitempty"`
	Cmd       protocol.CommandMsg `json:"cmd"`
	OK        bool                `json:"ok"`
	Code      string              `json:"code,omitempty"`
}

// Audit actions.
const (
	AuditSale         = "SALE"
	AuditPurchase     = "PURCHASE"
	AuditRestock      = "RESTOCK"
	AuditCookStart    = "COOK_START"
	AuditCookDone     = "COOK_DONE"
	AuditOrderPlaced  = "ORDER_PLACED"
	AuditOrderExpired = "ORDER_EXPIRED"
	AuditSpawn        = "SPAWN"
	AuditOpen         = "OPEN"
	AuditClose        = "CLOSE"
)

// AuditEntry records one money or stock movement. Amount is the signed balance delta.
type AuditEntry struct {
	Tick     uint64 `json:"tick"`
	Actor    string `json:"actor,omitempty"`
	Action   string `json:"action"`
	Item     string `json:"item,omitempty"`
	Recipe   string `json:"recipe,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
	Balance  int64  `json:"balance"`
	Receipt  string `json:"receipt,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (e *Engine) audit(a AuditEntry) {
	if e.auditLogger == nil {
		return
	}
	a.Tick = e.tick.Load()
	a.Balance = e.ledger.Balance()
	if err := e.auditLogger.WriteAudit(a); err != nil {
		e.logger.Printf("audit %s: %v", a.Action, err)
	}
}
