package main

import (
	"testing"
	"time"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/tuning"
)

func TestDriverServesHeadCustomer(t *testing.T) {
	cats, err := catalogs.Load("../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	cfg := tuning.Defaults()
	cfg.StartingMoney = 200
	cfg.DefaultUnlocked = []string{"tteokbokki"}
	cfg.Customers = []tuning.CustomerSpawn{{Name: "Minji", OrderItem: "TTEOKBOKKI", Quantity: 1}}
	e, err := engine.New(cfg, cats, nil, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	d := newDriver(cats)
	snap := e.Latest()
	for i := 0; i < 400; i++ {
		cmds := d.Next(&snap)
		results := e.StepOnce(100*time.Millisecond, cmds...)
		snap = e.Latest()
		snap.Results = results
		if e.Metrics().SalesTotal == 1 {
			break
		}
	}
	if got := e.Metrics().SalesTotal; got != 1 {
		t.Fatalf("expected the bot to complete a sale, sales=%d money=%d", got, e.Ledger().Balance())
	}
	if e.Ledger().Balance() <= 200 {
		t.Fatalf("balance did not grow: %d", e.Ledger().Balance())
	}
}

func TestDriverWaitsForPendingResults(t *testing.T) {
	d := newDriver(&catalogs.Catalogs{})
	snap := &protocol.Snapshot{}
	first := d.Next(snap)
	if len(first) != 1 || first[0].Cmd != protocol.CmdOpenBusiness {
		t.Fatalf("first batch: %+v", first)
	}
	if again := d.Next(snap); len(again) != 0 {
		t.Fatalf("must wait for result, got %+v", again)
	}
	snap.Results = []protocol.ResultMsg{{ID: first[0].ID, OK: true}}
	if next := d.Next(snap); len(next) != 1 || next[0].ID == first[0].ID {
		t.Fatalf("expected a fresh command after the result, got %+v", next)
	}
}
