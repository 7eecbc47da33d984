package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"

	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/transport/ws"
)

func newMux(e *engine.Engine, idx runtimeIndex, enablePprof bool, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, e.Metrics())
		if idx != nil {
			writeIndexMetrics(rw, idx)
		}
	})
	mux.HandleFunc("/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(e.Latest())
	})
	if enablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (FT_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(e, logger).Handler())
	return mux
}

// Minimal Prometheus exposition format.
func writeMetrics(rw http.ResponseWriter, m engine.Metrics) {
	gauge := func(name, help string, v any) {
		fmt.Fprintf(rw, "# HELP %s %s\n", name, help)
		fmt.Fprintf(rw, "# TYPE %s gauge\n", name)
		fmt.Fprintf(rw, "%s %v\n", name, v)
	}
	counter := func(name, help string, v any) {
		fmt.Fprintf(rw, "# HELP %s %s\n", name, help)
		fmt.Fprintf(rw, "# TYPE %s counter\n", name)
		fmt.Fprintf(rw, "%s %v\n", name, v)
	}

	gauge("foodtruck_tick", "Current engine tick.", m.Tick)
	gauge("foodtruck_money", "Ledger balance.", m.Money)
	gauge("foodtruck_business_open", "1 while the business is open.", boolGauge(m.BusinessOpen))
	gauge("foodtruck_queue_len", "Customers in the queue.", m.QueueLen)
	gauge("foodtruck_customers", "Spawned customers.", m.Customers)
	gauge("foodtruck_sessions", "Connected websocket sessions.", m.Sessions)
	gauge("foodtruck_unlocked_recipes", "Unlocked recipe count.", m.Unlocked)
	gauge("foodtruck_cooking", "1 while a dish is cooking.", boolGauge(m.Cooking))
	gauge("foodtruck_inbox_depth", "Command inbox backlog.", m.InboxDepth)
	fmt.Fprintf(rw, "# HELP foodtruck_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(rw, "# TYPE foodtruck_step_ms gauge\n")
	fmt.Fprintf(rw, "foodtruck_step_ms %.3f\n", m.StepMS)

	counter("foodtruck_sales_total", "Completed sales.", m.SalesTotal)
	counter("foodtruck_revenue_total", "Money earned from sales.", m.Revenue)
	counter("foodtruck_spend_total", "Money spent in the shop.", m.Spend)
	counter("foodtruck_orders_expired_total", "Orders that ran out of time.", m.ExpiredTotal)
	counter("foodtruck_cooked_total", "Finished cooking jobs.", m.CookedTotal)
	counter("foodtruck_lost_dish_total", "Dishes lost to a full inventory.", m.LostDishTotal)
	counter("foodtruck_refusals_total", "Refused commands.", m.RefusalsTotal)
}

func writeIndexMetrics(rw http.ResponseWriter, idx runtimeIndex) {
	s := idx.Stats()
	fmt.Fprintf(rw, "# HELP foodtruck_index_queue_depth Index writer backlog.\n")
	fmt.Fprintf(rw, "# TYPE foodtruck_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "foodtruck_index_queue_depth %d\n", s.QueueDepth)
	fmt.Fprintf(rw, "# HELP foodtruck_index_dropped_total Index writes dropped because the writer fell behind.\n")
	fmt.Fprintf(rw, "# TYPE foodtruck_index_dropped_total counter\n")
	fmt.Fprintf(rw, "foodtruck_index_dropped_total{kind=%q} %d\n", "tick", s.DropTickTotal)
	fmt.Fprintf(rw, "foodtruck_index_dropped_total{kind=%q} %d\n", "audit", s.DropAuditTotal)
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}
