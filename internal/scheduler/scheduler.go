// Package scheduler drives the treasury on a fixed cadence: once per cycle
// it pulls new sales, feeds them through the engine, pays operating costs,
// advances the unlock queue, and reports the resulting status to the owner.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TreasuryBot/internal/model"
	"TreasuryBot/internal/notifier"
	"TreasuryBot/internal/recorder"
	"TreasuryBot/internal/sales"
	"TreasuryBot/internal/treasury"
)

// Notifier delivers rendered reports to the owner.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler owns the cron loop and the owner command dispatch.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *treasury.Engine
	Source   sales.Source
	Notifier Notifier
	Recorder recorder.Recorder
	Ctx      context.Context

	logger *zap.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, eng *treasury.Engine, src sales.Source, n Notifier, rec recorder.Recorder, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Source:   src,
		Notifier: n,
		Recorder: rec,
		Ctx:      ctx,
		logger:   logger,
	}
}

// Register wires the cycle task to its cron spec.
func (s *Scheduler) Register(cycleCron string) error {
	if _, err := s.Cron.AddFunc(cycleCron, s.cycleTask); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.logger.Info("scheduler stopped")
}

// RunCycleNow executes the treasury cycle immediately (manual trigger or
// RUN_ON_START).
func (s *Scheduler) RunCycleNow() {
	s.cycleTask()
}

func (s *Scheduler) cycleTask() {
	s.logger.Info("running treasury cycle")

	newSales, err := s.Source.FetchNewSales(s.Ctx)
	if err != nil {
		s.logger.Error("fetch sales", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Treasury cycle aborted, sales fetch failed: %v", err))
		return
	}

	var splits []model.SplitResult
	for _, sale := range newSales {
		split, err := s.Engine.ProcessRevenue(sale.Amount)
		if err != nil {
			if errors.Is(err, treasury.ErrInvalidAmount) {
				s.logger.Warn("skipping invalid sale",
					zap.String("sale", sale.ID),
					zap.Float64("amount", sale.Amount),
				)
				continue
			}
			s.logger.Error("process revenue", zap.String("sale", sale.ID), zap.Error(err))
			s.trySend(fmt.Sprintf("❌ Treasury cycle aborted mid-revenue: %v", err))
			return
		}
		splits = append(splits, *split)
		if err := s.Recorder.RecordSplit(&recorder.SplitEvent{
			SaleID:    sale.ID,
			Product:   sale.Product,
			Amount:    split.Amount,
			OwnerCut:  split.OwnerCut,
			AgentCut:  split.AgentCut,
			TierLabel: split.Tier.Label,
			OwnerPct:  split.Tier.OwnerPct,
			AgentPct:  split.Tier.AgentPct,
			MonthKey:  s.Engine.Ledger().MonthKey,
		}); err != nil {
			s.logger.Error("record split", zap.Error(err))
		}
	}

	pay, err := s.Engine.PayOperatingCosts()
	if err != nil {
		s.logger.Error("pay operating costs", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Operating cost payment failed: %v", err))
		return
	}
	budget := s.Engine.Ledger().AgentBudget
	for _, p := range pay.Payments {
		if err := s.Recorder.RecordPayment(&recorder.PaymentEvent{
			PaymentID:   p.ID,
			ModuleID:    p.ModuleID,
			Amount:      p.Amount,
			Period:      p.Period,
			BudgetAfter: budget,
		}); err != nil {
			s.logger.Error("record payment", zap.Error(err))
		}
	}
	for _, id := range pay.Suspended {
		s.recordUnlock(id, string(model.StatusActive), string(model.StatusSuspended), "suspended")
	}

	activated, err := s.Engine.ProcessUnlockQueue()
	if err != nil {
		s.logger.Error("process unlock queue", zap.Error(err))
	}
	for _, id := range activated {
		s.recordUnlock(id, string(model.StatusPendingApproval), string(model.StatusActive), "auto")
	}

	for _, def := range s.Engine.CheckEligibility() {
		rec, err := s.Engine.InitiateUnlock(def.ID)
		if err != nil {
			s.logger.Error("initiate unlock", zap.String("module", def.ID), zap.Error(err))
			continue
		}
		s.recordUnlock(def.ID, string(model.StatusLocked), string(model.StatusPendingApproval), "initiated")
		s.trySend(notifier.FormatUnlockPrompt(def, rec))
	}

	snap, err := s.Engine.GetStatus()
	if err != nil {
		s.logger.Error("get status", zap.Error(err))
		return
	}
	s.trySend(notifier.FormatCycleReport(splits, pay, activated, snap))
}

// HandleCommand processes an owner command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.helpText()
	}

	switch fields[0] {
	case "/status":
		snap, err := s.Engine.GetStatus()
		if err != nil {
			return fmt.Sprintf("status failed: %v", err)
		}
		return notifier.FormatStatus(snap)
	case "/run":
		s.cycleTask()
		return ""
	case "/approve", "/reject", "/reactivate":
		if len(fields) < 2 {
			return fmt.Sprintf("usage: %s <module-id>", fields[0])
		}
		return s.handleVerdict(fields[0], fields[1])
	default:
		return s.helpText()
	}
}

func (s *Scheduler) handleVerdict(verb, moduleID string) string {
	var err error
	switch verb {
	case "/approve":
		err = s.Engine.ApproveUnlock(moduleID)
	case "/reject":
		err = s.Engine.RejectUnlock(moduleID)
	case "/reactivate":
		err = s.Engine.ReactivateModule(moduleID)
	}
	if err != nil {
		return fmt.Sprintf("%s %s failed: %v", verb, moduleID, err)
	}
	switch verb {
	case "/approve":
		s.recordUnlock(moduleID, string(model.StatusPendingApproval), string(model.StatusActive), "approved")
		return fmt.Sprintf("✅ %s approved and active", moduleID)
	case "/reject":
		s.recordUnlock(moduleID, string(model.StatusPendingApproval), string(model.StatusLocked), "rejected")
		return fmt.Sprintf("🚫 %s rejected, back to locked", moduleID)
	default:
		s.recordUnlock(moduleID, string(model.StatusSuspended), string(model.StatusActive), "reactivated")
		return fmt.Sprintf("✅ %s reactivated", moduleID)
	}
}

func (s *Scheduler) helpText() string {
	return "Commands:\n• /status\n• /run\n• /approve <module-id>\n• /reject <module-id>\n• /reactivate <module-id>"
}

func (s *Scheduler) recordUnlock(moduleID, from, to, reason string) {
	if err := s.Recorder.RecordUnlock(&recorder.UnlockEvent{
		ModuleID: moduleID,
		From:     from,
		To:       to,
		Reason:   reason,
	}); err != nil {
		s.logger.Error("record unlock event", zap.Error(err))
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
