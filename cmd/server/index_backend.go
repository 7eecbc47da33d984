package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"foodtruck.sim/internal/persistence/indexdb"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/tuning"
)

type runtimeIndex interface {
	engine.TickLogger
	engine.AuditLogger
	Close() error
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
	Stats() indexdb.Stats
}

func openRuntimeIndex(dataDir, backend string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "truck.sqlite"))
	case "none", "off", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported FT_INDEX_BACKEND: %s", backend)
	}
}
