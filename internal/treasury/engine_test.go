package treasury

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryBot/internal/model"
	"TreasuryBot/internal/modules"
	"TreasuryBot/internal/store"
	"TreasuryBot/internal/tier"
)

// testCatalog: one free module plus two paid ones with distinct thresholds.
func testCatalog(t *testing.T) *modules.Catalog {
	t.Helper()
	c, err := modules.NewCatalog([]model.ModuleDefinition{
		{ID: "core", Name: "Core", Priority: 1},
		{ID: "pro", Name: "Pro", MonthlyCost: 15, OwnerBankMin: 100, Paid: true, Priority: 2},
		{ID: "video", Name: "Video", MonthlyCost: 50, OwnerBankMin: 1000, Paid: true, Priority: 3},
	})
	require.NoError(t, err)
	return c
}

// newTestEngine builds an engine over a memory store with a controllable
// clock. Tests advance time by reassigning *now.
func newTestEngine(t *testing.T, now *time.Time) (*Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return rebuildEngine(t, st, now), st
}

func rebuildEngine(t *testing.T, st *store.MemoryStore, now *time.Time) *Engine {
	t.Helper()
	eng, err := New(tier.Default, testCatalog(t), st, WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return eng
}

func TestNewSeedsUnlockRecords(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	recs := eng.UnlockRecords()
	require.Len(t, recs, 3)
	assert.Equal(t, model.StatusActive, recs["core"].Status)
	assert.Equal(t, now, recs["core"].ActivatedAt)
	assert.Equal(t, model.StatusLocked, recs["pro"].Status)
	assert.Equal(t, model.StatusLocked, recs["video"].Status)
}

func TestProcessRevenueSplitsByTier(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	split, err := eng.ProcessRevenue(100)
	require.NoError(t, err)

	// 100 into an empty month resolves Starter (60/40).
	assert.Equal(t, "Starter", split.Tier.Label)
	assert.Equal(t, 60.0, split.OwnerCut)
	assert.Equal(t, 40.0, split.AgentCut)

	led := eng.Ledger()
	assert.Equal(t, 100.0, led.LifetimeRevenue)
	assert.Equal(t, 60.0, led.LifetimeOwnerPaid)
	assert.Equal(t, 60.0, led.OwnerBankEstimate)
	assert.Equal(t, 40.0, led.AgentBudget)
	assert.Equal(t, 100.0, led.MonthlyRevenue)
	assert.Equal(t, "2024-03", led.MonthKey)
	assert.Equal(t, "Starter", led.CurrentTierLabel)
	require.Len(t, led.History, 1)
	assert.Equal(t, now, led.History[0].Timestamp)
}

func TestProcessRevenueUsesPostAdditionTier(t *testing.T) {
	// Start the month at 2000 (Starter); a 2000 event lands the month at
	// 4000 (Growing, 65/35) and the whole event splits at the higher rate.
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveLedger(&model.LedgerState{MonthlyRevenue: 2000, MonthKey: "2024-03"}))
	eng := rebuildEngine(t, st, &now)

	split, err := eng.ProcessRevenue(2000)
	require.NoError(t, err)

	assert.Equal(t, "Growing", split.Tier.Label)
	assert.Equal(t, 1300.0, split.OwnerCut)
	assert.Equal(t, 700.0, split.AgentCut)
	assert.Equal(t, 4000.0, eng.Ledger().MonthlyRevenue)
}

func TestProcessRevenueConservation(t *testing.T) {
	// Independent rounding of the two cuts may miss the amount by up to
	// one cent, never more.
	amounts := []float64{0, 0.01, 0.03, 0.99, 1, 9.99, 33.33, 99.99, 1234.56, 10001.01}
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	for _, amount := range amounts {
		split, err := eng.ProcessRevenue(amount)
		require.NoError(t, err, "amount %g", amount)
		diff := math.Abs(split.OwnerCut + split.AgentCut - amount)
		assert.LessOrEqual(t, diff, 0.01, "amount %g: owner %g agent %g", amount, split.OwnerCut, split.AgentCut)
	}
}

func TestProcessRevenueRejectsInvalidAmounts(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	for _, amount := range []float64{-0.01, -100, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := eng.ProcessRevenue(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %g", amount)
	}
	// Nothing was mutated.
	assert.Zero(t, eng.Ledger().LifetimeRevenue)
	assert.Empty(t, eng.Ledger().History)
}

func TestProcessRevenueMonthRollover(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveLedger(&model.LedgerState{MonthlyRevenue: 500, MonthKey: "2024-01"}))
	eng := rebuildEngine(t, st, &now)

	_, err := eng.ProcessRevenue(100)
	require.NoError(t, err)

	led := eng.Ledger()
	assert.Equal(t, "2024-02", led.MonthKey)
	assert.Equal(t, 500.0, led.LastMonthRevenue)
	assert.Equal(t, 100.0, led.MonthlyRevenue)
}

func TestMonthRolloverIsLazy(t *testing.T) {
	// No revenue event, no rollover: a status read in a new month still
	// reports the stale monthly total.
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)
	_, err := eng.ProcessRevenue(500)
	require.NoError(t, err)

	now = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	snap, err := eng.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 500.0, snap.MonthlyRevenue)
	assert.Equal(t, "2024-01", snap.MonthKey)
}

func TestHistoryCapIsFIFO(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()

	seed := &model.LedgerState{MonthKey: "2024-03"}
	for i := 0; i < model.HistoryCap; i++ {
		seed.History = append(seed.History, model.HistoryEntry{Amount: float64(i)})
	}
	require.NoError(t, st.SaveLedger(seed))
	eng := rebuildEngine(t, st, &now)

	_, err := eng.ProcessRevenue(999)
	require.NoError(t, err)

	hist := eng.Ledger().History
	require.Len(t, hist, model.HistoryCap)
	assert.Equal(t, 1.0, hist[0].Amount, "oldest entry drops first")
	assert.Equal(t, 999.0, hist[len(hist)-1].Amount)
}

func TestProcessRevenueKeepsStateOnPersistFailure(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, st := newTestEngine(t, &now)

	st.FailNextSave = errors.New("disk full")
	_, err := eng.ProcessRevenue(100)
	assert.ErrorIs(t, err, ErrPersistence)

	led := eng.Ledger()
	assert.Zero(t, led.LifetimeRevenue)
	assert.Zero(t, led.AgentBudget)
	assert.Empty(t, led.History)

	// The engine recovers on the next call.
	_, err = eng.ProcessRevenue(100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, eng.Ledger().LifetimeRevenue)
}

func TestLifetimeCountersNeverDecrease(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, &now)

	var prev model.LedgerState
	for _, amount := range []float64{100, 0, 2500, 31.41, 9000} {
		_, err := eng.ProcessRevenue(amount)
		require.NoError(t, err)
		led := eng.Ledger()
		assert.GreaterOrEqual(t, led.LifetimeRevenue, prev.LifetimeRevenue)
		assert.GreaterOrEqual(t, led.LifetimeOwnerPaid, prev.LifetimeOwnerPaid)
		assert.GreaterOrEqual(t, led.OwnerBankEstimate, prev.OwnerBankEstimate)
		prev = *led
	}
}

func TestStateSurvivesReload(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eng, st := newTestEngine(t, &now)

	_, err := eng.ProcessRevenue(250)
	require.NoError(t, err)
	_, err = eng.InitiateUnlock("pro")
	require.NoError(t, err)

	// A fresh engine over the same store sees the same books.
	reloaded := rebuildEngine(t, st, &now)
	assert.Equal(t, eng.Ledger(), reloaded.Ledger())
	assert.Equal(t, model.StatusPendingApproval, reloaded.UnlockRecords()["pro"].Status)
}
