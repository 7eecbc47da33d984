package main

import (
	"database/sql"
	"path/filepath"
	"testing"

	"foodtruck.sim/internal/persistence/indexdb"
	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/tuning"
)

func writeIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index", "truck.sqlite")
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	cats, err := catalogs.Load("../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := idx.UpsertCatalogs("../../configs", cats, tuning.Defaults()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	_ = idx.WriteTick(engine.TickLogEntry{Tick: 1, Money: 200, Open: true, QueueLen: 2, Cooking: "tteokbokki",
		Commands: []engine.RecordedCommand{{SessionID: "S1", Cmd: protocol.CommandMsg{Cmd: protocol.CmdCook, RecipeID: "tteokbokki"}, OK: true}}})
	_ = idx.WriteTick(engine.TickLogEntry{Tick: 2, Money: 320})
	_ = idx.WriteAudit(engine.AuditEntry{Tick: 2, Action: engine.AuditSale, Actor: "Minji", Item: "TTEOKBOKKI", Quantity: 1, Amount: 120, Balance: 320, Receipt: "r1"})
	_ = idx.WriteAudit(engine.AuditEntry{Tick: 2, Action: engine.AuditSale, Actor: "Jisoo", Item: "TTEOKBOKKI", Quantity: 2, Amount: 240, Balance: 560, Receipt: "r2"})
	_ = idx.WriteAudit(engine.AuditEntry{Tick: 3, Action: engine.AuditPurchase, Recipe: "hotteok", Amount: -150, Balance: 410})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestQueries(t *testing.T) {
	db, err := sql.Open("sqlite", writeIndex(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ticks, err := queryTicks(db, 10)
	if err != nil || len(ticks) != 2 {
		t.Fatalf("ticks: %+v %v", ticks, err)
	}
	if ticks[0].Tick != 2 || ticks[1].Cooking != "tteokbokki" || !ticks[1].Open || ticks[1].Commands != 1 {
		t.Fatalf("tick rows: %+v", ticks)
	}

	sales, err := querySales(db)
	if err != nil || len(sales) != 1 {
		t.Fatalf("sales: %+v %v", sales, err)
	}
	if s := sales[0]; s.Item != "TTEOKBOKKI" || s.Sales != 2 || s.Quantity != 3 || s.Revenue != 360 {
		t.Fatalf("sales row: %+v", s)
	}

	txs, err := queryTransactions(db, engine.AuditPurchase, 10)
	if err != nil || len(txs) != 1 || txs[0].Amount != -150 {
		t.Fatalf("purchases: %+v %v", txs, err)
	}
	all, err := queryTransactions(db, "", 2)
	if err != nil || len(all) != 2 || all[0].Tick != 3 {
		t.Fatalf("limited transactions: %+v %v", all, err)
	}

	cmds, err := queryCommands(db, 10)
	if err != nil || len(cmds) != 1 || cmds[0].Cmd != protocol.CmdCook || cmds[0].SessionID != "S1" {
		t.Fatalf("commands: %+v %v", cmds, err)
	}

	cs, err := queryCatalogs(db)
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	names := map[string]bool{}
	for _, c := range cs {
		names[c.Name] = true
	}
	for _, want := range []string{"items", "recipes", "shop", "tuning"} {
		if !names[want] {
			t.Fatalf("missing catalog row %q in %+v", want, cs)
		}
	}
}
