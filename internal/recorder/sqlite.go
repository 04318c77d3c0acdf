package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MomentumScalper/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis tooling can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screener_runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			symbol            TEXT NOT NULL,
			rank              INTEGER NOT NULL,
			slope_pct_per_day REAL,
			avg_range_pct     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_screener_ts ON screener_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trade_log (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			buy_price    REAL,
			target_price REAL,
			edge         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_ts ON trade_log(timestamp)`,

		`CREATE TABLE IF NOT EXISTS order_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			side        TEXT,
			limit_price REAL,
			qty         INTEGER,
			status      TEXT,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_ts ON order_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScreenerRun(stocks []model.TrendingStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for i, s := range stocks {
		if _, err := tx.Exec(`INSERT INTO screener_runs
			(timestamp, symbol, rank, slope_pct_per_day, avg_range_pct)
			VALUES (?,?,?,?,?)`,
			now, s.Symbol, i+1, s.Slope, s.AvgRangePct,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordTradeDecisions(decisions []model.TradeDecision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, d := range decisions {
		if _, err := tx.Exec(`INSERT INTO trade_log
			(timestamp, symbol, buy_price, target_price, edge)
			VALUES (?,?,?,?,?)`,
			now, d.Symbol, d.LastClose, d.Target, d.Edge,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordOrderEvent(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO order_events
		(timestamp, symbol, side, limit_price, qty, status, note)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.Side),
		evt.LimitPrice, evt.Qty, evt.Status, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
