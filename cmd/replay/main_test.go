package main

import (
	"bytes"
	"strings"
	"testing"

	persistlog "foodtruck.sim/internal/persistence/log"
	"foodtruck.sim/internal/sim/engine"
)

func TestSummaryFromAuditFiles(t *testing.T) {
	dir := t.TempDir()
	l := persistlog.NewAuditLogger(dir)
	for _, a := range []engine.AuditEntry{
		{Tick: 1, Action: engine.AuditPurchase, Recipe: "hotteok", Amount: -150, Balance: 50},
		{Tick: 4, Action: engine.AuditCookDone, Recipe: "tteokbokki"},
		{Tick: 5, Action: engine.AuditSale, Item: "TTEOKBOKKI", Quantity: 2, Amount: 240, Balance: 290},
		{Tick: 9, Action: engine.AuditSale, Item: "EOMUK", Quantity: 1, Amount: 80, Balance: 370},
		{Tick: 12, Action: engine.AuditOrderExpired, Actor: "Minji"},
	} {
		if err := l.WriteAudit(a); err != nil {
			t.Fatalf("write audit: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := persistlog.AuditFiles(dir)
	if err != nil || len(files) == 0 {
		t.Fatalf("audit files: %v %v", files, err)
	}

	read := func(s *summary) {
		t.Helper()
		for _, f := range files {
			if err := persistlog.ReadAudit(f, s.add); err != nil {
				t.Fatalf("read: %v", err)
			}
		}
	}

	sum := newSummary(0, 0)
	read(sum)
	if sum.revenue != 320 || sum.spend != 150 || sum.expired != 1 || sum.cooked != 1 {
		t.Fatalf("totals: revenue=%d spend=%d expired=%d cooked=%d", sum.revenue, sum.spend, sum.expired, sum.cooked)
	}
	if it := sum.items["TTEOKBOKKI"]; it == nil || it.Quantity != 2 || it.Revenue != 240 {
		t.Fatalf("tteokbokki totals: %+v", it)
	}

	var buf bytes.Buffer
	sum.print(&buf)
	out := buf.String()
	if !strings.Contains(out, "net=170") || !strings.Contains(out, "balance=370") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "EOMUK") > strings.Index(out, "TTEOKBOKKI") {
		t.Fatalf("items must print in id order:\n%s", out)
	}

	windowed := newSummary(5, 5)
	read(windowed)
	if windowed.entries != 1 || windowed.revenue != 240 {
		t.Fatalf("window: entries=%d revenue=%d", windowed.entries, windowed.revenue)
	}
}
