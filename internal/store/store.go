// Package store persists the treasury's durable records: the ledger state
// and the per-module unlock records. The engine assumes a single logical
// writer; the store provides no cross-process locking.
package store

import "TreasuryBot/internal/model"

// Store reads and writes the two durable treasury records. Loading a record
// that was never saved returns a zero-value state, not an error.
type Store interface {
	LoadLedger() (*model.LedgerState, error)
	SaveLedger(state *model.LedgerState) error
	LoadUnlocks() (map[string]*model.UnlockRecord, error)
	SaveUnlocks(records map[string]*model.UnlockRecord) error
}
