package store

import "TreasuryBot/internal/model"

// MemoryStore keeps both records in memory. Used in tests and dry runs.
type MemoryStore struct {
	ledger  *model.LedgerState
	unlocks map[string]*model.UnlockRecord

	// FailNextSave makes the next save of either record fail, for testing
	// the engine's commit-after-persist behavior.
	FailNextSave error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadLedger() (*model.LedgerState, error) {
	if s.ledger == nil {
		return &model.LedgerState{}, nil
	}
	return s.ledger.Clone(), nil
}

func (s *MemoryStore) SaveLedger(state *model.LedgerState) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.ledger = state.Clone()
	return nil
}

func (s *MemoryStore) LoadUnlocks() (map[string]*model.UnlockRecord, error) {
	out := make(map[string]*model.UnlockRecord, len(s.unlocks))
	for id, r := range s.unlocks {
		out[id] = r.Clone()
	}
	return out, nil
}

func (s *MemoryStore) SaveUnlocks(records map[string]*model.UnlockRecord) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.unlocks = make(map[string]*model.UnlockRecord, len(records))
	for id, r := range records {
		s.unlocks[id] = r.Clone()
	}
	return nil
}

func (s *MemoryStore) takeFailure() error {
	err := s.FailNextSave
	s.FailNextSave = nil
	return err
}
