package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/tuning"
)

func TestSQLiteIndex_WritesTicksAndTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "truck.sqlite")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Catalogs go in before the writer goroutine holds the single connection.
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := s.UpsertCatalogs("../../../configs", cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}

	_ = s.WriteTick(engine.TickLogEntry{
		Tick:     1,
		Money:    200,
		Open:     true,
		QueueLen: 2,
		Commands: []engine.RecordedCommand{
			{SessionID: "S1", Cmd: protocol.CommandMsg{ID: "c1", Cmd: protocol.CmdOpenBusiness}, OK: true},
			{SessionID: "S1", Cmd: protocol.CommandMsg{ID: "c2", Cmd: protocol.CmdCook, RecipeID: "pajeon"}, Code: protocol.ErrNoPermission},
		},
	})
	_ = s.WriteAudit(engine.AuditEntry{Tick: 4, Action: engine.AuditSale, Item: "EOMUK", Quantity: 2, Amount: 120, Balance: 320, Receipt: "r-1"})
	_ = s.WriteAudit(engine.AuditEntry{Tick: 4, Action: engine.AuditRestock, Item: "FLOUR", Quantity: 3, Balance: 320})

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Writes after close are ignored.
	_ = s.WriteTick(engine.TickLogEntry{Tick: 2})

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	count := func(q string, args ...any) int {
		t.Helper()
		var n int
		if err := db.QueryRow(q, args...).Scan(&n); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		return n
	}
	if n := count(`SELECT COUNT(*) FROM ticks`); n != 1 {
		t.Fatalf("ticks=%d", n)
	}
	if n := count(`SELECT COUNT(*) FROM commands WHERE ok=0 AND code=?`, protocol.ErrNoPermission); n != 1 {
		t.Fatalf("refused commands=%d", n)
	}
	if n := count(`SELECT COUNT(*) FROM transactions WHERE tick=4`); n != 2 {
		t.Fatalf("transactions=%d", n)
	}
	if n := count(`SELECT COALESCE(SUM(amount),0) FROM transactions WHERE action=?`, engine.AuditSale); n != 120 {
		t.Fatalf("revenue=%d", n)
	}
	if n := count(`SELECT COUNT(*) FROM catalogs WHERE name IN ('items','recipes','shop','tuning')`); n != 4 {
		t.Fatalf("catalog rows=%d", n)
	}
}

func TestSQLiteIndex_DropsWhenQueueFull(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: engine.TickLogEntry{Tick: 1}}

	_ = s.WriteTick(engine.TickLogEntry{Tick: 2})
	_ = s.WriteAudit(engine.AuditEntry{Tick: 2})

	st := s.Stats()
	if st.DropTickTotal != 1 || st.DropAuditTotal != 1 {
		t.Fatalf("drops: %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
