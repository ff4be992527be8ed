package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"TreasuryBot/internal/model"
)

// money renders an amount as dollars with thousands separators and cents.
func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatCycleReport renders the outcome of one treasury cycle.
func FormatCycleReport(splits []model.SplitResult, pay *model.PaymentSummary, activated []string, snap *model.StatusSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💰 <b>Treasury Cycle</b> | %s\n\n", snap.GeneratedAt.Format("2006-01-02")))

	if len(splits) == 0 {
		b.WriteString("No new sales.\n")
	} else {
		total := 0.0
		for _, s := range splits {
			total += s.Amount
		}
		b.WriteString(fmt.Sprintf("Sales processed: %d (%s)\n", len(splits), money(total)))
		for _, s := range splits {
			b.WriteString(fmt.Sprintf("  • %s → owner %s / agent %s (%s)\n",
				money(s.Amount), money(s.OwnerCut), money(s.AgentCut), s.Tier.Label))
		}
	}

	if pay != nil {
		b.WriteString(fmt.Sprintf("\nOperating costs: %s (%d payments)\n", money(pay.TotalCost), len(pay.Payments)))
		if len(pay.Suspended) > 0 {
			b.WriteString(fmt.Sprintf("⛔ Suspended (budget exhausted): %s\n", strings.Join(pay.Suspended, ", ")))
		}
	}

	if len(activated) > 0 {
		b.WriteString(fmt.Sprintf("\n🔓 Auto-unlocked: %s\n", strings.Join(activated, ", ")))
	}

	b.WriteString("\n")
	b.WriteString(FormatStatus(snap))
	return b.String()
}

// FormatStatus renders a treasury snapshot.
func FormatStatus(snap *model.StatusSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Treasury Status</b> | %s\n\n", snap.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Tier: %s (%g/%g owner/agent)\n", snap.Tier.Label, snap.Tier.OwnerPct, snap.Tier.AgentPct))
	b.WriteString(fmt.Sprintf("This month: %s | Last month: %s\n", money(snap.MonthlyRevenue), money(snap.LastMonthRevenue)))
	b.WriteString(fmt.Sprintf("Lifetime revenue: %s\n", money(snap.LifetimeRevenue)))
	b.WriteString(fmt.Sprintf("Owner bank estimate: %s\n", money(snap.OwnerBankEstimate)))
	b.WriteString(fmt.Sprintf("Agent budget: %s (net %s after module costs)\n", money(snap.AgentBudget), money(snap.NetAgentBudget)))

	if len(snap.ActiveModules) > 0 {
		b.WriteString(fmt.Sprintf("Active modules: %s\n", strings.Join(snap.ActiveModules, ", ")))
	}
	if len(snap.PendingModules) > 0 {
		b.WriteString(fmt.Sprintf("Pending approval: %s\n", strings.Join(snap.PendingModules, ", ")))
	}
	if len(snap.SuspendedModules) > 0 {
		b.WriteString(fmt.Sprintf("Suspended: %s\n", strings.Join(snap.SuspendedModules, ", ")))
	}

	if snap.AllUnlocked {
		b.WriteString("All modules unlocked 🎉\n")
	} else if snap.NextUnlock != nil {
		b.WriteString(fmt.Sprintf("Next unlock: %s\n", snap.NextUnlock.Message))
	}
	return b.String()
}

// FormatUnlockPrompt renders the owner notification for a module entering
// pending_approval.
func FormatUnlockPrompt(def model.ModuleDefinition, rec *model.UnlockRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔓 <b>Module Eligible: %s</b>\n\n", def.Name))
	if def.Paid {
		b.WriteString(fmt.Sprintf("Monthly cost: %s\n", money(def.MonthlyCost)))
	}
	b.WriteString(fmt.Sprintf("Auto-unlocks: %s\n", rec.AutoUnlockAt.UTC().Format("2006-01-02 15:04 MST")))
	b.WriteString(fmt.Sprintf("Reply \"/approve %s\" or \"/reject %s\" before then to decide yourself.\n", def.ID, def.ID))
	return b.String()
}
