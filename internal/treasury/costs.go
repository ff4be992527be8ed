package treasury

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TreasuryBot/internal/model"
)

// PayOperatingCosts charges every active paid module its monthly cost from
// the agent budget, once per billing period. A module already charged for
// the current period is skipped, so re-running the cycle inside one month
// cannot double-charge. A module the budget cannot cover is suspended; its
// cost is not deducted and there is no automatic way back to active, the
// owner must call ReactivateModule.
func (e *Engine) PayOperatingCosts() (*model.PaymentSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	period := monthKey(now)
	nextLedger := e.ledger.Clone()
	nextUnlocks := cloneUnlocks(e.unlocks)
	sum := &model.PaymentSummary{}

	for _, def := range e.catalog.All() {
		rec := nextUnlocks[def.ID]
		if rec == nil || rec.Status != model.StatusActive || def.MonthlyCost <= 0 {
			continue
		}
		if rec.LastChargedPeriod == period {
			sum.Skipped = append(sum.Skipped, def.ID)
			continue
		}
		if nextLedger.AgentBudget >= def.MonthlyCost {
			nextLedger.AgentBudget = round2(nextLedger.AgentBudget - def.MonthlyCost)
			nextLedger.LifetimeAgentSpent = round2(nextLedger.LifetimeAgentSpent + def.MonthlyCost)
			rec.LastChargedPeriod = period
			sum.Payments = append(sum.Payments, model.Payment{
				ID:       uuid.NewString(),
				ModuleID: def.ID,
				Amount:   def.MonthlyCost,
				Period:   period,
				PaidAt:   now,
			})
			sum.TotalCost = round2(sum.TotalCost + def.MonthlyCost)
		} else {
			rec.Status = model.StatusSuspended
			sum.Suspended = append(sum.Suspended, def.ID)
			e.logger.Warn("module suspended, agent budget exhausted",
				zap.String("module", def.ID),
				zap.Float64("monthly_cost", def.MonthlyCost),
				zap.Float64("agent_budget", nextLedger.AgentBudget),
			)
		}
	}

	if err := e.store.SaveLedger(nextLedger); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := e.store.SaveUnlocks(nextUnlocks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.ledger = nextLedger
	e.unlocks = nextUnlocks

	e.logger.Info("operating costs paid",
		zap.String("period", period),
		zap.Float64("total", sum.TotalCost),
		zap.Int("payments", len(sum.Payments)),
		zap.Strings("suspended", sum.Suspended),
	)
	return sum, nil
}

// ReactivateModule is the manual override out of
// suspended_insufficient_funds. It does not charge the module; the next
// PayOperatingCosts call does, budget permitting.
func (e *Engine) ReactivateModule(moduleID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.catalog.Get(moduleID); !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	rec := e.unlocks[moduleID]
	if rec == nil || rec.Status != model.StatusSuspended {
		return fmt.Errorf("%w: reactivate %s from %s", ErrInvalidTransition, moduleID, recStatus(rec))
	}

	next := cloneUnlocks(e.unlocks)
	r := next[moduleID]
	r.Status = model.StatusActive
	r.ActivatedAt = e.now()

	if err := e.store.SaveUnlocks(next); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.unlocks = next
	e.logger.Info("module reactivated", zap.String("module", moduleID))
	return nil
}

func recStatus(r *model.UnlockRecord) model.UnlockStatus {
	if r == nil {
		return "unknown"
	}
	return r.Status
}
