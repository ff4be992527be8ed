package model

// Tier is one revenue band of the split schedule. Min is inclusive, Max is
// exclusive; the last tier carries Max = +Inf so the schedule covers [0, ∞).
type Tier struct {
	Min      float64
	Max      float64
	OwnerPct float64
	AgentPct float64
	Label    string
}

// Contains reports whether a monthly revenue total falls inside this band.
func (t Tier) Contains(monthly float64) bool {
	return monthly >= t.Min && monthly < t.Max
}

// SplitResult is the outcome of processing a single revenue event.
type SplitResult struct {
	Amount   float64 `json:"amount"`
	OwnerCut float64 `json:"owner_cut"`
	AgentCut float64 `json:"agent_cut"`
	Tier     Tier    `json:"tier"`
}
