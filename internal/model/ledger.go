package model

import "time"

// HistoryCap bounds the ledger's revenue history. Oldest entries drop first.
const HistoryCap = 365

// HistoryEntry is one processed revenue event.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
	OwnerCut  float64   `json:"owner_cut"`
	AgentCut  float64   `json:"agent_cut"`
	TierLabel string    `json:"tier_label"`
	OwnerPct  float64   `json:"owner_pct"`
	AgentPct  float64   `json:"agent_pct"`
}

// LedgerState is the durable financial state of the business. The lifetime
// counters only ever grow; AgentBudget is the sole pool operating costs are
// paid from and is kept apart from the owner's share.
type LedgerState struct {
	LifetimeRevenue    float64        `json:"lifetime_revenue"`
	LifetimeOwnerPaid  float64        `json:"lifetime_owner_paid"`
	LifetimeAgentSpent float64        `json:"lifetime_agent_spent"`
	AgentBudget        float64        `json:"agent_budget"`
	OwnerBankEstimate  float64        `json:"owner_bank_estimate"`
	MonthlyRevenue     float64        `json:"monthly_revenue"`
	LastMonthRevenue   float64        `json:"last_month_revenue"`
	MonthKey           string         `json:"month_key"`
	CurrentTierLabel   string         `json:"current_tier_label"`
	History            []HistoryEntry `json:"history"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Clone returns a deep copy. Mutating operations work on a copy and commit
// it only after the new state has been persisted.
func (s *LedgerState) Clone() *LedgerState {
	c := *s
	c.History = make([]HistoryEntry, len(s.History))
	copy(c.History, s.History)
	return &c
}
