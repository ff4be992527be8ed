// Package treasury implements the treasury engine: deterministic tiered
// revenue splitting over a durable ledger, operating-cost payment from the
// agent budget, and the module unlock lifecycle.
//
// The engine is a single-writer component. It serializes its own methods
// with a mutex so one process can safely share it between a scheduler and a
// command handler, but two processes pointed at the same state files will
// overwrite each other; deploy exactly one instance per ledger.
package treasury

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"TreasuryBot/internal/model"
	"TreasuryBot/internal/modules"
	"TreasuryBot/internal/store"
	"TreasuryBot/internal/tier"
)

// AutoUnlockDelay is how long a pending module waits for a manual verdict
// before it auto-activates.
const AutoUnlockDelay = 48 * time.Hour

// affordabilityMonths is the budget buffer a paid module must clear before
// it becomes eligible: three months of its cost in the agent budget.
const affordabilityMonths = 3

// Engine owns the ledger and the unlock records. All mutation funnels
// through its methods; callers only ever see copies.
type Engine struct {
	mu      sync.Mutex
	tiers   tier.Table
	catalog *modules.Catalog
	store   store.Store
	logger  *zap.Logger
	now     func() time.Time

	ledger  *model.LedgerState
	unlocks map[string]*model.UnlockRecord
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the engine's time source. Tests use this to drive the
// unlock timers and billing periods.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New loads durable state from the store and returns a ready engine. Unlock
// records are seeded from the catalog on first use: the free module starts
// active, every paid module starts locked.
func New(tiers tier.Table, catalog *modules.Catalog, s store.Store, opts ...Option) (*Engine, error) {
	if err := tiers.Validate(); err != nil {
		return nil, fmt.Errorf("treasury: %w", err)
	}
	e := &Engine{
		tiers:   tiers,
		catalog: catalog,
		store:   s,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	ledger, err := s.LoadLedger()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	unlocks, err := s.LoadUnlocks()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.ledger = ledger
	e.unlocks = unlocks

	if seeded := e.seedUnlocks(); seeded > 0 {
		if err := s.SaveUnlocks(e.unlocks); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		e.logger.Info("seeded unlock records", zap.Int("count", seeded))
	}
	return e, nil
}

// seedUnlocks creates records for catalog modules that have none yet and
// returns how many it created.
func (e *Engine) seedUnlocks() int {
	seeded := 0
	for _, def := range e.catalog.All() {
		if _, ok := e.unlocks[def.ID]; ok {
			continue
		}
		rec := &model.UnlockRecord{ModuleID: def.ID, Status: model.StatusLocked}
		if !def.Paid {
			rec.Status = model.StatusActive
			rec.ActivatedAt = e.now()
		}
		e.unlocks[def.ID] = rec
		seeded++
	}
	return seeded
}

// Catalog returns the module catalog the engine was built with.
func (e *Engine) Catalog() *modules.Catalog { return e.catalog }

// UnlockRecords returns a copy of every unlock record, keyed by module id.
func (e *Engine) UnlockRecords() map[string]*model.UnlockRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneUnlocks(e.unlocks)
}

// monthKey renders the billing period of a point in time as "YYYY-MM".
func monthKey(t time.Time) string { return t.Format("2006-01") }

// round2 rounds a money amount to two decimal places.
func round2(x float64) float64 { return math.Round(x*100) / 100 }

func cloneUnlocks(in map[string]*model.UnlockRecord) map[string]*model.UnlockRecord {
	out := make(map[string]*model.UnlockRecord, len(in))
	for id, r := range in {
		out[id] = r.Clone()
	}
	return out
}
