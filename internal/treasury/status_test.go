package treasury

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryBot/internal/model"
	"TreasuryBot/internal/store"
)

func TestGetStatusSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveLedger(&model.LedgerState{
		LifetimeRevenue:   12000,
		LifetimeOwnerPaid: 7600,
		OwnerBankEstimate: 7600,
		AgentBudget:       100,
		MonthlyRevenue:    4000,
		LastMonthRevenue:  2500,
		MonthKey:          "2024-03",
	}))
	require.NoError(t, st.SaveUnlocks(map[string]*model.UnlockRecord{
		"pro": {ModuleID: "pro", Status: model.StatusActive},
	}))
	eng := rebuildEngine(t, st, &now)

	snap, err := eng.GetStatus()
	require.NoError(t, err)

	assert.Equal(t, "Growing", snap.Tier.Label)
	assert.Equal(t, 4000.0, snap.MonthlyRevenue)
	assert.Equal(t, 2500.0, snap.LastMonthRevenue)
	assert.Equal(t, 100.0, snap.AgentBudget)
	// Net budget deducts active module costs: pro at 15, core is free.
	assert.Equal(t, 85.0, snap.NetAgentBudget)
	assert.Equal(t, []string{"Core", "Pro"}, snap.ActiveModules)
	assert.False(t, snap.AllUnlocked)
	assert.Equal(t, now, snap.GeneratedAt)

	// Video (priority 3) is the only locked module left.
	require.NotNil(t, snap.NextUnlock)
	assert.Equal(t, "video", snap.NextUnlock.ModuleID)
	assert.Zero(t, snap.NextUnlock.Needed, "owner bank already past the threshold")
	assert.Contains(t, snap.NextUnlock.Message, "threshold met")
}

func TestGetStatusNextUnlockShortfall(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveLedger(&model.LedgerState{OwnerBankEstimate: 40, MonthKey: "2024-03"}))
	eng := rebuildEngine(t, st, &now)

	snap, err := eng.GetStatus()
	require.NoError(t, err)

	// Pro (priority 2, min 100) outranks video (priority 3, min 1000).
	require.NotNil(t, snap.NextUnlock)
	assert.Equal(t, "pro", snap.NextUnlock.ModuleID)
	assert.Equal(t, 60.0, snap.NextUnlock.Needed)
	assert.Contains(t, snap.NextUnlock.Message, "$60.00 to go")
}

func TestGetStatusAllUnlocked(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveLedger(&model.LedgerState{MonthKey: "2024-03"}))
	require.NoError(t, st.SaveUnlocks(map[string]*model.UnlockRecord{
		"pro":   {ModuleID: "pro", Status: model.StatusActive},
		"video": {ModuleID: "video", Status: model.StatusSuspended},
	}))
	eng := rebuildEngine(t, st, &now)

	snap, err := eng.GetStatus()
	require.NoError(t, err)

	// Suspended still counts as unlocked; nothing is locked anymore.
	assert.True(t, snap.AllUnlocked)
	assert.Nil(t, snap.NextUnlock)
	assert.Equal(t, []string{"Video"}, snap.SuspendedModules)
}

func TestGetStatusListsPending(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	_, err := eng.InitiateUnlock("pro")
	require.NoError(t, err)

	snap, err := eng.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, []string{"Pro"}, snap.PendingModules)
}
