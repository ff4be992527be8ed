// Package tier holds the revenue split schedule: ordered bands of monthly
// revenue, each mapping to an owner/agent percentage split.
package tier

import (
	"fmt"
	"math"

	"TreasuryBot/internal/model"
)

// Table is an ordered set of tiers partitioning [0, ∞).
type Table []model.Tier

// Default is the compiled-in split schedule. Bands are monthly revenue in
// the shop currency; the owner share grows as the month scales.
var Default = Table{
	{Min: 0, Max: 3000, OwnerPct: 60, AgentPct: 40, Label: "Starter"},
	{Min: 3000, Max: 10000, OwnerPct: 65, AgentPct: 35, Label: "Growing"},
	{Min: 10000, Max: 25000, OwnerPct: 70, AgentPct: 30, Label: "Scaling"},
	{Min: 25000, Max: math.Inf(1), OwnerPct: 75, AgentPct: 25, Label: "Thriving"},
}

// Validate checks that the table partitions [0, ∞) with no gaps or overlaps
// and that every split sums to 100.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if t[0].Min != 0 {
		return fmt.Errorf("tier %q: first tier must start at 0, got %g", t[0].Label, t[0].Min)
	}
	for i, tr := range t {
		if tr.Label == "" {
			return fmt.Errorf("tier %d: empty label", i)
		}
		if tr.Max <= tr.Min {
			return fmt.Errorf("tier %q: max %g not above min %g", tr.Label, tr.Max, tr.Min)
		}
		if tr.OwnerPct < 0 || tr.AgentPct < 0 || tr.OwnerPct+tr.AgentPct != 100 {
			return fmt.Errorf("tier %q: owner %g%% + agent %g%% must sum to 100", tr.Label, tr.OwnerPct, tr.AgentPct)
		}
		if i > 0 && tr.Min != t[i-1].Max {
			return fmt.Errorf("tier %q: starts at %g, previous tier ends at %g", tr.Label, tr.Min, t[i-1].Max)
		}
	}
	if !math.IsInf(t[len(t)-1].Max, 1) {
		return fmt.Errorf("tier %q: last tier must be unbounded", t[len(t)-1].Label)
	}
	return nil
}

// Resolve returns the tier containing the given monthly revenue total.
// The argument must be non-negative; a validated table makes Resolve total
// over [0, ∞).
func (t Table) Resolve(monthly float64) (model.Tier, error) {
	if monthly < 0 || math.IsNaN(monthly) {
		return model.Tier{}, fmt.Errorf("tier: cannot resolve monthly revenue %g", monthly)
	}
	for _, tr := range t {
		if tr.Contains(monthly) {
			return tr, nil
		}
	}
	return model.Tier{}, fmt.Errorf("tier: no band covers %g", monthly)
}
