package model

import "time"

// UnlockStatus is the lifecycle state of a feature module.
type UnlockStatus string

const (
	StatusLocked          UnlockStatus = "locked"
	StatusPendingApproval UnlockStatus = "pending_approval"
	StatusActive          UnlockStatus = "active"
	StatusSuspended       UnlockStatus = "suspended_insufficient_funds"
)

// ModuleDefinition describes one unlockable capability. Definitions are
// compiled in; adding a module is a code change.
type ModuleDefinition struct {
	ID           string
	Name         string
	MonthlyCost  float64
	OwnerBankMin float64
	Paid         bool
	Priority     int
}

// UnlockRecord is the durable per-module unlock state. NotifiedAt and
// AutoUnlockAt are set only while pending_approval. LastChargedPeriod holds
// the "YYYY-MM" billing period the module was last charged for, so a repeat
// PayOperatingCosts call inside one period is a no-op.
type UnlockRecord struct {
	ModuleID          string       `json:"module_id"`
	Status            UnlockStatus `json:"status"`
	NotifiedAt        time.Time    `json:"notified_at,omitzero"`
	AutoUnlockAt      time.Time    `json:"auto_unlock_at,omitzero"`
	ActivatedAt       time.Time    `json:"activated_at,omitzero"`
	LastChargedPeriod string       `json:"last_charged_period,omitempty"`
}

// Clone returns a copy of the record.
func (r *UnlockRecord) Clone() *UnlockRecord {
	c := *r
	return &c
}

// Payment records one operating-cost charge.
type Payment struct {
	ID       string    `json:"id"`
	ModuleID string    `json:"module_id"`
	Amount   float64   `json:"amount"`
	Period   string    `json:"period"`
	PaidAt   time.Time `json:"paid_at"`
}

// PaymentSummary is the outcome of one PayOperatingCosts call.
type PaymentSummary struct {
	TotalCost float64   `json:"total_cost"`
	Payments  []Payment `json:"payments"`
	Suspended []string  `json:"suspended"` // module IDs suspended this call
	Skipped   []string  `json:"skipped"`   // module IDs already charged this period
}
