// Package recorder keeps an append-only audit trail of treasury activity in
// SQLite, for dashboards and after-the-fact reconciliation. The trail is
// advisory; the ledger files remain the source of truth.
package recorder

// SplitEvent records one processed revenue event.
type SplitEvent struct {
	SaleID    string
	Product   string
	Amount    float64
	OwnerCut  float64
	AgentCut  float64
	TierLabel string
	OwnerPct  float64
	AgentPct  float64
	MonthKey  string
}

// PaymentEvent records one operating-cost charge.
type PaymentEvent struct {
	PaymentID   string
	ModuleID    string
	Amount      float64
	Period      string
	BudgetAfter float64
}

// UnlockEvent records one unlock state transition.
type UnlockEvent struct {
	ModuleID string
	From     string
	To       string
	Reason   string // "initiated", "auto", "approved", "rejected", "suspended", "reactivated"
}

// Recorder persists audit events.
type Recorder interface {
	RecordSplit(evt *SplitEvent) error
	RecordPayment(evt *PaymentEvent) error
	RecordUnlock(evt *UnlockEvent) error
	Close() error
}
