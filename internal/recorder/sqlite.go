package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists audit events to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS revenue_splits (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			sale_id    TEXT,
			product    TEXT,
			amount     REAL,
			owner_cut  REAL,
			agent_cut  REAL,
			tier_label TEXT,
			owner_pct  REAL,
			agent_pct  REAL,
			month_key  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_splits_ts ON revenue_splits(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_splits_month ON revenue_splits(month_key)`,

		`CREATE TABLE IF NOT EXISTS cost_payments (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			payment_id   TEXT,
			module_id    TEXT,
			amount       REAL,
			period       TEXT,
			budget_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_ts ON cost_payments(timestamp)`,

		`CREATE TABLE IF NOT EXISTS unlock_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			module_id   TEXT,
			from_status TEXT,
			to_status   TEXT,
			reason      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unlocks_ts ON unlock_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSplit(evt *SplitEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO revenue_splits
		(timestamp, sale_id, product, amount, owner_cut, agent_cut, tier_label, owner_pct, agent_pct, month_key)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.SaleID, evt.Product, evt.Amount,
		evt.OwnerCut, evt.AgentCut, evt.TierLabel, evt.OwnerPct, evt.AgentPct, evt.MonthKey,
	)
	return err
}

func (r *SQLiteRecorder) RecordPayment(evt *PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cost_payments
		(timestamp, payment_id, module_id, amount, period, budget_after)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.PaymentID, evt.ModuleID, evt.Amount, evt.Period, evt.BudgetAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordUnlock(evt *UnlockEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO unlock_events
		(timestamp, module_id, from_status, to_status, reason)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.ModuleID, evt.From, evt.To, evt.Reason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
