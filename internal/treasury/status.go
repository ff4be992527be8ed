package treasury

import (
	"fmt"
	"math"

	"TreasuryBot/internal/model"
)

// GetStatus assembles a read-only snapshot of the treasury: the tier the
// current monthly total resolves to, the ledger figures, the net agent
// budget after active modules' recurring costs, and the next module in line
// to unlock.
func (e *Engine) GetStatus() (*model.StatusSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tiers.Resolve(e.ledger.MonthlyRevenue)
	if err != nil {
		return nil, err
	}

	snap := &model.StatusSnapshot{
		Tier:               t,
		MonthKey:           e.ledger.MonthKey,
		MonthlyRevenue:     e.ledger.MonthlyRevenue,
		LastMonthRevenue:   e.ledger.LastMonthRevenue,
		LifetimeRevenue:    e.ledger.LifetimeRevenue,
		LifetimeOwnerPaid:  e.ledger.LifetimeOwnerPaid,
		LifetimeAgentSpent: e.ledger.LifetimeAgentSpent,
		OwnerBankEstimate:  e.ledger.OwnerBankEstimate,
		AgentBudget:        e.ledger.AgentBudget,
		NetAgentBudget:     e.ledger.AgentBudget,
		AllUnlocked:        true,
		GeneratedAt:        e.now(),
	}

	for _, def := range e.catalog.All() {
		rec := e.unlocks[def.ID]
		if rec == nil {
			continue
		}
		switch rec.Status {
		case model.StatusActive:
			snap.ActiveModules = append(snap.ActiveModules, def.Name)
			snap.NetAgentBudget = round2(snap.NetAgentBudget - def.MonthlyCost)
		case model.StatusPendingApproval:
			snap.PendingModules = append(snap.PendingModules, def.Name)
		case model.StatusSuspended:
			snap.SuspendedModules = append(snap.SuspendedModules, def.Name)
		case model.StatusLocked:
			snap.AllUnlocked = false
			if snap.NextUnlock == nil {
				needed := round2(math.Max(0, def.OwnerBankMin-e.ledger.OwnerBankEstimate))
				msg := fmt.Sprintf("%s unlocks at $%.2f owner bank", def.Name, def.OwnerBankMin)
				if needed > 0 {
					msg = fmt.Sprintf("%s ($%.2f to go)", msg, needed)
				} else {
					msg = fmt.Sprintf("%s (threshold met)", msg)
				}
				snap.NextUnlock = &model.NextUnlock{
					ModuleID: def.ID,
					Name:     def.Name,
					Needed:   needed,
					Message:  msg,
				}
			}
		}
	}
	return snap, nil
}
