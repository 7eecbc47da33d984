package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/engine"
	"foodtruck.sim/internal/sim/tuning"
)

func findRepoRootForServerTests(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not locate go.mod from %s", dir)
		}
		dir = parent
	}
}

func newTestServer(t *testing.T, withIndex bool) (*engine.Engine, *httptest.Server) {
	t.Helper()
	root := findRepoRootForServerTests(t)
	cats, err := catalogs.Load(filepath.Join(root, "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(root, "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	e, err := engine.New(tune, cats, nil, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	var idx runtimeIndex
	if withIndex {
		idx, err = openRuntimeIndex(t.TempDir(), "sqlite", false)
		if err != nil {
			t.Fatalf("open index: %v", err)
		}
		t.Cleanup(func() { _ = idx.Close() })
		if err := idx.UpsertCatalogs(filepath.Join(root, "configs"), cats, tune); err != nil {
			t.Fatalf("upsert catalogs: %v", err)
		}
		e.SetTickLogger(idx)
		e.SetAuditLogger(idx)
	}

	srv := httptest.NewServer(newMux(e, idx, false, log.New(io.Discard, "", 0)))
	t.Cleanup(srv.Close)
	return e, srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	c := &http.Client{Timeout: 5 * time.Second}
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestHealthAndState(t *testing.T) {
	e, srv := newTestServer(t, false)
	e.StepOnce(100*time.Millisecond, protocol.CommandMsg{ID: "o", Cmd: protocol.CmdOpenBusiness})

	if code, body := get(t, srv.URL+"/healthz"); code != 200 || body != "ok" {
		t.Fatalf("healthz: %d %q", code, body)
	}

	code, body := get(t, srv.URL+"/v1/state")
	if code != 200 {
		t.Fatalf("state status: %d", code)
	}
	var snap protocol.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.Type != protocol.TypeSnapshot || !snap.BusinessOpen {
		t.Fatalf("unexpected state: type=%s open=%v", snap.Type, snap.BusinessOpen)
	}
	if snap.Money != e.Ledger().Balance() {
		t.Fatalf("money: got %d want %d", snap.Money, e.Ledger().Balance())
	}

	resp, err := http.Post(srv.URL+"/v1/state", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST state: %d", resp.StatusCode)
	}
}

func TestMetricsExposition(t *testing.T) {
	e, srv := newTestServer(t, true)
	e.StepOnce(100*time.Millisecond,
		protocol.CommandMsg{ID: "r", Cmd: protocol.CmdRestock, ItemID: "FLOUR", Count: 2},
		protocol.CommandMsg{ID: "x", Cmd: protocol.CmdCook, RecipeID: "nope"},
	)

	code, body := get(t, srv.URL+"/metrics")
	if code != 200 {
		t.Fatalf("metrics status: %d", code)
	}
	for _, want := range []string{
		"foodtruck_tick 0\n",
		"# TYPE foodtruck_money gauge\n",
		"foodtruck_refusals_total 1\n",
		"foodtruck_business_open 0\n",
		`foodtruck_index_dropped_total{kind="tick"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestOpenRuntimeIndexBackends(t *testing.T) {
	idx, err := openRuntimeIndex(t.TempDir(), "sqlite", true)
	if err != nil || idx != nil {
		t.Fatalf("disable_db: idx=%v err=%v", idx, err)
	}
	idx, err = openRuntimeIndex(t.TempDir(), "off", false)
	if err != nil || idx != nil {
		t.Fatalf("off: idx=%v err=%v", idx, err)
	}
	if _, err := openRuntimeIndex(t.TempDir(), "d1", false); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
}
