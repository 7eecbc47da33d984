package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	persistlog "foodtruck.sim/internal/persistence/log"
	"foodtruck.sim/internal/sim/engine"
)

func main() {
	var (
		dataDir  = flag.String("data", "./data", "runtime data directory containing audit/audit-*.jsonl.zst")
		fromTick = flag.Uint64("from_tick", 0, "first tick to include (inclusive, optional)")
		toTick   = flag.Uint64("to_tick", 0, "last tick to include (inclusive, optional)")
	)
	flag.Parse()

	files, err := persistlog.AuditFiles(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list audit files:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no audit files under", *dataDir)
		os.Exit(2)
	}

	sum := newSummary(*fromTick, *toTick)
	for _, f := range files {
		if err := persistlog.ReadAudit(f, sum.add); err != nil {
			fmt.Fprintln(os.Stderr, "read audit:", err)
			os.Exit(1)
		}
	}
	sum.print(os.Stdout)
}

type itemTotals struct {
	Sales    int
	Quantity int
	Revenue  int64
}

type summary struct {
	from, to uint64

	entries   int
	firstTick uint64
	lastTick  uint64
	revenue   int64
	spend     int64
	expired   int
	cooked    int
	balance   int64
	items     map[string]*itemTotals
}

func newSummary(from, to uint64) *summary {
	return &summary{from: from, to: to, items: map[string]*itemTotals{}}
}

func (s *summary) add(a engine.AuditEntry) error {
	if a.Tick < s.from || (s.to != 0 && a.Tick > s.to) {
		return nil
	}
	if s.entries == 0 {
		s.firstTick = a.Tick
	}
	s.entries++
	s.lastTick = a.Tick
	s.balance = a.Balance

	switch a.Action {
	case engine.AuditSale:
		s.revenue += a.Amount
		it := s.items[a.Item]
		if it == nil {
			it = &itemTotals{}
			s.items[a.Item] = it
		}
		it.Sales++
		it.Quantity += a.Quantity
		it.Revenue += a.Amount
	case engine.AuditPurchase:
		s.spend += -a.Amount
	case engine.AuditOrderExpired:
		s.expired++
	case engine.AuditCookDone:
		s.cooked++
	}
	return nil
}

func (s *summary) print(w io.Writer) {
	fmt.Fprintf(w, "entries=%d ticks=%d..%d balance=%d\n", s.entries, s.firstTick, s.lastTick, s.balance)
	fmt.Fprintf(w, "revenue=%d spend=%d net=%d cooked=%d expired=%d\n", s.revenue, s.spend, s.revenue-s.spend, s.cooked, s.expired)

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		it := s.items[id]
		fmt.Fprintf(w, "  %-14s sales=%d qty=%d revenue=%d\n", id, it.Sales, it.Quantity, it.Revenue)
	}
}
