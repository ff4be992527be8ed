// Package modules holds the fixed catalog of unlockable capabilities.
// Adding a module is a code change, not a runtime operation.
package modules

import (
	"fmt"
	"sort"

	"TreasuryBot/internal/model"
)

// Catalog is a versioned, immutable set of module definitions.
type Catalog struct {
	defs []model.ModuleDefinition
	byID map[string]model.ModuleDefinition
}

// Default is the module catalog this build ships with. Exactly one module is
// free and always available; the rest are paid features gated behind owner
// bank thresholds.
var Default = mustCatalog([]model.ModuleDefinition{
	{ID: "core-publishing", Name: "Core Publishing", MonthlyCost: 0, OwnerBankMin: 0, Paid: false, Priority: 1},
	{ID: "premium-content", Name: "Premium Content Generation", MonthlyCost: 29, OwnerBankMin: 500, Paid: true, Priority: 2},
	{ID: "social-automation", Name: "Social Automation", MonthlyCost: 19, OwnerBankMin: 1000, Paid: true, Priority: 3},
	{ID: "video-channel", Name: "Video Channel", MonthlyCost: 49, OwnerBankMin: 2500, Paid: true, Priority: 4},
	{ID: "paid-ads", Name: "Paid Advertising", MonthlyCost: 99, OwnerBankMin: 5000, Paid: true, Priority: 5},
})

// NewCatalog validates the definitions and returns a catalog sorted by
// priority.
func NewCatalog(defs []model.ModuleDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("modules: catalog is empty")
	}
	sorted := make([]model.ModuleDefinition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	byID := make(map[string]model.ModuleDefinition, len(sorted))
	byPriority := make(map[int]string, len(sorted))
	freeCount := 0
	for _, d := range sorted {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("modules: definition with empty id or name")
		}
		if _, dup := byID[d.ID]; dup {
			return nil, fmt.Errorf("modules: duplicate id %q", d.ID)
		}
		if prev, dup := byPriority[d.Priority]; dup {
			return nil, fmt.Errorf("modules: %q and %q share priority %d", prev, d.ID, d.Priority)
		}
		if !d.Paid && d.MonthlyCost != 0 {
			return nil, fmt.Errorf("modules: free module %q has monthly cost %g", d.ID, d.MonthlyCost)
		}
		if d.Paid && d.MonthlyCost <= 0 {
			return nil, fmt.Errorf("modules: paid module %q has no monthly cost", d.ID)
		}
		if d.MonthlyCost < 0 || d.OwnerBankMin < 0 {
			return nil, fmt.Errorf("modules: %q has negative cost or threshold", d.ID)
		}
		if !d.Paid {
			freeCount++
		}
		byID[d.ID] = d
		byPriority[d.Priority] = d.ID
	}
	if freeCount != 1 {
		return nil, fmt.Errorf("modules: catalog needs exactly one free module, found %d", freeCount)
	}
	return &Catalog{defs: sorted, byID: byID}, nil
}

func mustCatalog(defs []model.ModuleDefinition) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the definitions in priority order.
func (c *Catalog) All() []model.ModuleDefinition {
	out := make([]model.ModuleDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get looks a module up by id.
func (c *Catalog) Get(id string) (model.ModuleDefinition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Free returns the single always-available module.
func (c *Catalog) Free() model.ModuleDefinition {
	for _, d := range c.defs {
		if !d.Paid {
			return d
		}
	}
	// NewCatalog guarantees one free module exists.
	panic("modules: no free module")
}

// Len returns the number of modules in the catalog.
func (c *Catalog) Len() int { return len(c.defs) }
