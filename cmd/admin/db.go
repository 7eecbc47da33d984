package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type tickRow struct {
	Tick     int64  `json:"tick"`
	Money    int64  `json:"money"`
	Open     bool   `json:"open"`
	QueueLen int    `json:"queue_len"`
	Cooking  string `json:"cooking,omitempty"`
	Commands int    `json:"commands"`
}

type txRow struct {
	Tick     int64  `json:"tick"`
	Seq      int    `json:"seq"`
	Action   string `json:"action"`
	Actor    string `json:"actor,omitempty"`
	Item     string `json:"item,omitempty"`
	Recipe   string `json:"recipe,omitempty"`
	Quantity int    `json:"quantity"`
	Amount   int64  `json:"amount"`
	Balance  int64  `json:"balance"`
	Receipt  string `json:"receipt,omitempty"`
}

type salesRow struct {
	Item     string `json:"item"`
	Sales    int    `json:"sales"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type commandRow struct {
	Tick      int64  `json:"tick"`
	Seq       int    `json:"seq"`
	SessionID string `json:"session_id,omitempty"`
	Cmd       string `json:"cmd"`
	OK        bool   `json:"ok"`
	Code      string `json:"code,omitempty"`
}

type catalogRow struct {
	Name      string `json:"name"`
	Digest    string `json:"digest"`
	UpdatedAt string `json:"updated_at"`
}

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (optional; defaults to <data>/index/truck.sqlite)")
	limit := fs.Int("limit", 20, "result limit")
	action := fs.String("action", "", "action filter (transactions)")
	_ = fs.Parse(args)

	q := "ticks"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index", "truck.sqlite")
	}
	if *limit <= 0 {
		*limit = 20
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	var rows any
	switch q {
	case "ticks":
		rows, err = queryTicks(db, *limit)
	case "transactions":
		rows, err = queryTransactions(db, *action, *limit)
	case "sales":
		rows, err = querySales(db)
	case "commands":
		rows, err = queryCommands(db, *limit)
	case "catalogs":
		rows, err = queryCatalogs(db)
	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data|-db PATH] [-limit N] [-action SALE] ticks|transactions|sales|commands|catalogs")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	printJSON(rows)
}

func queryTicks(db *sql.DB, limit int) ([]tickRow, error) {
	rows, err := db.Query(`SELECT tick,money,open,queue_len,COALESCE(cooking,''),commands FROM ticks ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []tickRow
	for rows.Next() {
		var r tickRow
		var open int
		if err := rows.Scan(&r.Tick, &r.Money, &open, &r.QueueLen, &r.Cooking, &r.Commands); err != nil {
			return nil, err
		}
		r.Open = open != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryTransactions(db *sql.DB, action string, limit int) ([]txRow, error) {
	q := `SELECT tick,seq,action,COALESCE(actor,''),COALESCE(item,''),COALESCE(recipe,''),quantity,amount,balance,COALESCE(receipt,'') FROM transactions`
	args := []any{}
	if action != "" {
		q += ` WHERE action=?`
		args = append(args, action)
	}
	q += ` ORDER BY tick DESC, seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []txRow
	for rows.Next() {
		var r txRow
		if err := rows.Scan(&r.Tick, &r.Seq, &r.Action, &r.Actor, &r.Item, &r.Recipe, &r.Quantity, &r.Amount, &r.Balance, &r.Receipt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func querySales(db *sql.DB) ([]salesRow, error) {
	rows, err := db.Query(`SELECT item,COUNT(*),SUM(quantity),SUM(amount) FROM transactions WHERE action='SALE' GROUP BY item ORDER BY item`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []salesRow
	for rows.Next() {
		var r salesRow
		if err := rows.Scan(&r.Item, &r.Sales, &r.Quantity, &r.Revenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryCommands(db *sql.DB, limit int) ([]commandRow, error) {
	rows, err := db.Query(`SELECT tick,seq,COALESCE(session_id,''),cmd,ok,COALESCE(code,'') FROM commands ORDER BY tick DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []commandRow
	for rows.Next() {
		var r commandRow
		var ok int
		if err := rows.Scan(&r.Tick, &r.Seq, &r.SessionID, &r.Cmd, &ok, &r.Code); err != nil {
			return nil, err
		}
		r.OK = ok != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryCatalogs(db *sql.DB) ([]catalogRow, error) {
	rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalogRow
	for rows.Next() {
		var r catalogRow
		if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
