package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"TreasuryBot/internal/model"
)

// FileStore keeps each record in its own pretty-printed JSON file so the
// owner can inspect the books with any text editor.
type FileStore struct {
	LedgerPath  string
	UnlocksPath string
}

// NewFileStore creates a store rooted at the two given paths, creating
// parent directories as needed.
func NewFileStore(ledgerPath, unlocksPath string) (*FileStore, error) {
	for _, p := range []string{ledgerPath, unlocksPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create dir %s: %w", dir, err)
			}
		}
	}
	return &FileStore{LedgerPath: ledgerPath, UnlocksPath: unlocksPath}, nil
}

// LoadLedger reads the ledger state, returning a zero state if the file
// does not exist yet.
func (s *FileStore) LoadLedger() (*model.LedgerState, error) {
	data, err := os.ReadFile(s.LedgerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.LedgerState{}, nil
		}
		return nil, fmt.Errorf("store: read ledger: %w", err)
	}
	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("store: parse ledger: %w", err)
	}
	return &state, nil
}

// SaveLedger writes the ledger state. The state is serialized before the
// file is touched, so a marshal failure leaves the previous file intact.
func (s *FileStore) SaveLedger(state *model.LedgerState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal ledger: %w", err)
	}
	if err := writeFileAtomic(s.LedgerPath, data); err != nil {
		return fmt.Errorf("store: write ledger: %w", err)
	}
	return nil
}

// LoadUnlocks reads the unlock record map, returning an empty map if the
// file does not exist yet.
func (s *FileStore) LoadUnlocks() (map[string]*model.UnlockRecord, error) {
	data, err := os.ReadFile(s.UnlocksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*model.UnlockRecord{}, nil
		}
		return nil, fmt.Errorf("store: read unlocks: %w", err)
	}
	records := map[string]*model.UnlockRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: parse unlocks: %w", err)
	}
	return records, nil
}

// SaveUnlocks writes the unlock record map.
func (s *FileStore) SaveUnlocks(records map[string]*model.UnlockRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal unlocks: %w", err)
	}
	if err := writeFileAtomic(s.UnlocksPath, data); err != nil {
		return fmt.Errorf("store: write unlocks: %w", err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// cannot leave a half-written ledger behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
