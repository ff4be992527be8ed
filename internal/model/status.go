package model

import "time"

// NextUnlock describes the lowest-priority module still locked.
type NextUnlock struct {
	ModuleID string  `json:"module_id"`
	Name     string  `json:"name"`
	Needed   float64 `json:"needed"` // owner bank shortfall, never negative
	Message  string  `json:"message"`
}

// StatusSnapshot is a read-only view of the treasury returned to callers.
type StatusSnapshot struct {
	Tier               Tier        `json:"tier"`
	MonthKey           string      `json:"month_key"`
	MonthlyRevenue     float64     `json:"monthly_revenue"`
	LastMonthRevenue   float64     `json:"last_month_revenue"`
	LifetimeRevenue    float64     `json:"lifetime_revenue"`
	LifetimeOwnerPaid  float64     `json:"lifetime_owner_paid"`
	LifetimeAgentSpent float64     `json:"lifetime_agent_spent"`
	OwnerBankEstimate  float64     `json:"owner_bank_estimate"`
	AgentBudget        float64     `json:"agent_budget"`
	NetAgentBudget     float64     `json:"net_agent_budget"` // budget minus active modules' monthly costs
	ActiveModules      []string    `json:"active_modules"`   // display names, priority order
	PendingModules     []string    `json:"pending_modules"`
	SuspendedModules   []string    `json:"suspended_modules"`
	AllUnlocked        bool        `json:"all_unlocked"`
	NextUnlock         *NextUnlock `json:"next_unlock,omitempty"`
	GeneratedAt        time.Time   `json:"generated_at"`
}
