package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	persistlog "foodtruck.sim/internal/persistence/log"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/movement"
	"foodtruck.sim/internal/sim/tuning"
)

// serverEnv holds process switches that are not part of the simulation tuning.
type serverEnv struct {
	IndexBackend string `env:"FT_INDEX_BACKEND" envDefault:"sqlite"`
	EnablePprof  bool   `env:"FT_ENABLE_PPROF_HTTP"`
}

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read model (tick/transaction index + catalogs)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	var senv serverEnv
	if err := env.Parse(&senv); err != nil {
		logger.Fatalf("parse env: %v", err)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if tune, err = tuning.ApplyEnv(tune); err != nil {
		logger.Fatalf("tuning env: %v", err)
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	// Optional read model; it never feeds back into the simulation.
	idx, err := openRuntimeIndex(*dataDir, senv.IndexBackend, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index backend: upsert catalogs: %v", err)
		}
	}

	engineLog := log.New(os.Stdout, "[engine] ", log.LstdFlags|log.Lmicroseconds)
	e, err := engine.New(tune, cats, movement.NewLinear(tune.Queue.WalkSpeed), engineLog)
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	tickLog := persistlog.NewTickLogger(*dataDir)
	auditLog := persistlog.NewAuditLogger(*dataDir)
	defer tickLog.Close()
	defer auditLog.Close()
	fan := persistlog.Fanout{
		Ticks:  []engine.TickLogger{tickLog},
		Audits: []engine.AuditLogger{auditLog},
	}
	if idx != nil {
		fan.Ticks = append(fan.Ticks, idx)
		fan.Audits = append(fan.Audits, idx)
	}
	e.SetTickLogger(fan)
	e.SetAuditLogger(fan)

	ctx, cancel := signalContext()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("engine stopped: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(e, idx, senv.EnablePprof, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (tick_rate=%dHz money=%d)", *addr, tune.TickRateHz, e.Ledger().Balance())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	<-done
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
