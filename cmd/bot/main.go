package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"TreasuryBot/internal/config"
	"TreasuryBot/internal/modules"
	"TreasuryBot/internal/notifier"
	"TreasuryBot/internal/recorder"
	"TreasuryBot/internal/sales"
	"TreasuryBot/internal/scheduler"
	"TreasuryBot/internal/store"
	"TreasuryBot/internal/tier"
	"TreasuryBot/internal/treasury"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "treasurybot",
		Short:         "Tiered revenue splitting, module unlocks, and operating costs for a small automated shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "path to config file")

	root.AddCommand(
		runCmd(),
		statusCmd(),
		verdictCmd("approve", "Approve a pending module unlock immediately"),
		verdictCmd("reject", "Reject a pending module unlock, returning it to locked"),
		verdictCmd("unlock", "Start the unlock countdown for a locked module"),
		verdictCmd("reactivate", "Reactivate a module suspended for insufficient funds"),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("DEBUG") == "true" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildEngine loads config and assembles the treasury engine over the file
// store. Every subcommand shares this path so CLI verdicts operate on the
// same state files as the daemon.
func buildEngine(logger *zap.Logger) (*config.Config, *treasury.Engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	st, err := store.NewFileStore(cfg.Treasury.LedgerFile, cfg.Treasury.UnlocksFile)
	if err != nil {
		return nil, nil, err
	}
	eng, err := treasury.New(tier.Default, modules.Default, st, treasury.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the treasury daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, eng, err := buildEngine(logger)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			var src sales.Source
			if cfg.Sales.Source == "http" {
				src = sales.NewHTTPSource(cfg.Sales.BaseURL, cfg.Sales.APIKey, cfg.Proxy)
			} else {
				src = sales.NewFileSource(cfg.Sales.DropFile)
			}
			logger.Info("sales source ready", zap.String("source", src.Name()))

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)

			var rec recorder.Recorder
			if cfg.Database.SQLitePath != "" {
				sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
				if err != nil {
					logger.Warn("sqlite recorder unavailable, using noop", zap.Error(err))
					rec = recorder.NewNoopRecorder()
				} else {
					rec = sr
					defer sr.Close()
				}
			} else {
				rec = recorder.NewNoopRecorder()
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, eng, src, tn, rec, logger)
			if err := sched.Register(cfg.Schedule.CycleCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			logger.Info("telegram polling started")

			if os.Getenv("RUN_ON_START") == "true" {
				logger.Info("RUN_ON_START enabled, executing cycle now")
				go sched.RunCycleNow()
			}

			logger.Info("treasurybot running")
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			logger.Info("shutdown signal received")
			cancel()
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the treasury status snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := buildEngine(zap.NewNop())
			if err != nil {
				return err
			}
			snap, err := eng.GetStatus()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func verdictCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <module-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			_, eng, err := buildEngine(logger)
			if err != nil {
				return err
			}

			moduleID := args[0]
			switch verb {
			case "approve":
				err = eng.ApproveUnlock(moduleID)
			case "reject":
				err = eng.RejectUnlock(moduleID)
			case "unlock":
				r, ierr := eng.InitiateUnlock(moduleID)
				if ierr == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s pending approval, auto-unlocks at %s\n",
						moduleID, r.AutoUnlockAt.Format("2006-01-02 15:04"))
					return nil
				}
				err = ierr
			case "reactivate":
				err = eng.ReactivateModule(moduleID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s done\n", verb, moduleID)
			return nil
		},
	}
}
