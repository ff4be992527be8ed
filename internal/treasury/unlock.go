package treasury

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"TreasuryBot/internal/model"
)

// CheckEligibility returns the locked modules whose thresholds are met, in
// priority order: the owner bank estimate has reached the module's minimum,
// and for paid modules the agent budget covers three months of its cost.
func (e *Engine) CheckEligibility() []model.ModuleDefinition {
	e.mu.Lock()
	defer e.mu.Unlock()

	var eligible []model.ModuleDefinition
	for _, def := range e.catalog.All() {
		rec := e.unlocks[def.ID]
		if rec == nil || rec.Status != model.StatusLocked {
			continue
		}
		if e.ledger.OwnerBankEstimate < def.OwnerBankMin {
			continue
		}
		if def.Paid && e.ledger.AgentBudget < affordabilityMonths*def.MonthlyCost {
			continue
		}
		eligible = append(eligible, def)
	}
	return eligible
}

// InitiateUnlock moves a locked module to pending_approval and starts the
// 48-hour auto-unlock timer. The caller is expected to notify the owner,
// who can approve or reject before the timer fires.
func (e *Engine) InitiateUnlock(moduleID string) (*model.UnlockRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.catalog.Get(moduleID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	rec := e.unlocks[moduleID]
	if rec == nil || rec.Status != model.StatusLocked {
		return nil, fmt.Errorf("%w: initiate unlock of %s from %s", ErrInvalidTransition, moduleID, recStatus(rec))
	}

	now := e.now()
	next := cloneUnlocks(e.unlocks)
	r := next[moduleID]
	r.Status = model.StatusPendingApproval
	r.NotifiedAt = now
	r.AutoUnlockAt = now.Add(AutoUnlockDelay)

	if err := e.store.SaveUnlocks(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.unlocks = next
	e.logger.Info("unlock initiated",
		zap.String("module", moduleID),
		zap.Time("auto_unlock_at", r.AutoUnlockAt),
	)
	return r.Clone(), nil
}

// ProcessUnlockQueue activates every pending module whose auto-unlock timer
// has expired and returns their ids. Re-running it is a no-op for modules
// already active.
func (e *Engine) ProcessUnlockQueue() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	next := cloneUnlocks(e.unlocks)
	var activated []string
	for _, def := range e.catalog.All() {
		r := next[def.ID]
		if r == nil || r.Status != model.StatusPendingApproval {
			continue
		}
		if r.AutoUnlockAt.After(now) {
			continue
		}
		r.Status = model.StatusActive
		r.ActivatedAt = now
		r.NotifiedAt = time.Time{}
		r.AutoUnlockAt = time.Time{}
		activated = append(activated, def.ID)
	}
	if len(activated) == 0 {
		return nil, nil
	}

	if err := e.store.SaveUnlocks(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.unlocks = next
	e.logger.Info("unlock queue processed", zap.Strings("activated", activated))
	return activated, nil
}

// ApproveUnlock activates a pending module immediately, without waiting for
// the auto-unlock timer.
func (e *Engine) ApproveUnlock(moduleID string) error {
	return e.resolvePending(moduleID, model.StatusActive)
}

// RejectUnlock returns a pending module to locked. A later InitiateUnlock
// may start the cycle again.
func (e *Engine) RejectUnlock(moduleID string) error {
	return e.resolvePending(moduleID, model.StatusLocked)
}

func (e *Engine) resolvePending(moduleID string, verdict model.UnlockStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.catalog.Get(moduleID); !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	rec := e.unlocks[moduleID]
	if rec == nil || rec.Status != model.StatusPendingApproval {
		return fmt.Errorf("%w: resolve %s from %s", ErrInvalidTransition, moduleID, recStatus(rec))
	}

	next := cloneUnlocks(e.unlocks)
	r := next[moduleID]
	r.Status = verdict
	r.NotifiedAt = time.Time{}
	r.AutoUnlockAt = time.Time{}
	if verdict == model.StatusActive {
		r.ActivatedAt = e.now()
	}

	if err := e.store.SaveUnlocks(next); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.unlocks = next
	e.logger.Info("pending unlock resolved",
		zap.String("module", moduleID),
		zap.String("verdict", string(verdict)),
	)
	return nil
}
