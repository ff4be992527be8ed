package treasury

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"TreasuryBot/internal/model"
)

// ProcessRevenue splits one revenue event between the owner and the agent
// budget and appends it to the ledger history.
//
// The tier is resolved against the monthly total AFTER the full amount is
// added; an event crossing a tier boundary is split entirely at the higher
// tier's rate, never prorated. Both cuts are rounded to cents
// independently, so ownerCut+agentCut can differ from amount by up to one
// cent.
//
// Month rollover is lazy: it happens here, when the first event of a new
// calendar month arrives, never on a timer.
func (e *Engine) ProcessRevenue(amount float64) (*model.SplitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidAmount, amount)
	}

	now := e.now()
	next := e.ledger.Clone()

	if mk := monthKey(now); next.MonthKey != mk {
		next.LastMonthRevenue = next.MonthlyRevenue
		next.MonthlyRevenue = 0
		next.MonthKey = mk
	}
	next.MonthlyRevenue = round2(next.MonthlyRevenue + amount)

	t, err := e.tiers.Resolve(next.MonthlyRevenue)
	if err != nil {
		return nil, err
	}

	ownerCut := round2(amount * t.OwnerPct / 100)
	agentCut := round2(amount * t.AgentPct / 100)

	next.LifetimeRevenue = round2(next.LifetimeRevenue + amount)
	next.LifetimeOwnerPaid = round2(next.LifetimeOwnerPaid + ownerCut)
	next.AgentBudget = round2(next.AgentBudget + agentCut)
	next.OwnerBankEstimate = round2(next.OwnerBankEstimate + ownerCut)
	next.CurrentTierLabel = t.Label

	next.History = append(next.History, model.HistoryEntry{
		Timestamp: now,
		Amount:    amount,
		OwnerCut:  ownerCut,
		AgentCut:  agentCut,
		TierLabel: t.Label,
		OwnerPct:  t.OwnerPct,
		AgentPct:  t.AgentPct,
	})
	if overflow := len(next.History) - model.HistoryCap; overflow > 0 {
		next.History = next.History[overflow:]
	}

	if err := e.store.SaveLedger(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.ledger = next

	e.logger.Info("revenue processed",
		zap.Float64("amount", amount),
		zap.String("tier", t.Label),
		zap.Float64("owner_cut", ownerCut),
		zap.Float64("agent_cut", agentCut),
		zap.Float64("monthly_revenue", next.MonthlyRevenue),
	)
	return &model.SplitResult{Amount: amount, OwnerCut: ownerCut, AgentCut: agentCut, Tier: t}, nil
}

// Ledger returns a copy of the current ledger state.
func (e *Engine) Ledger() *model.LedgerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Clone()
}
