package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Sales struct {
		Source   string `yaml:"source"` // "http" or "file"
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		DropFile string `yaml:"drop_file"`
	} `yaml:"sales"`
	Schedule struct {
		CycleCron string `yaml:"cycle_cron"`
	} `yaml:"schedule"`
	Treasury struct {
		LedgerFile  string `yaml:"ledger_file"`
		UnlocksFile string `yaml:"unlocks_file"`
	} `yaml:"treasury"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SALES_BASE_URL"); v != "" {
		cfg.Sales.BaseURL = v
		cfg.Sales.Source = "http"
	}
	if v := os.Getenv("SALES_API_KEY"); v != "" {
		cfg.Sales.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_CYCLE"); v != "" {
		cfg.Schedule.CycleCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Sales.Source == "" {
		cfg.Sales.Source = "file"
	}
	if cfg.Sales.DropFile == "" {
		cfg.Sales.DropFile = "data/sales_drop.json"
	}
	// Once daily at 09:00 (six-field spec, with seconds).
	if cfg.Schedule.CycleCron == "" {
		cfg.Schedule.CycleCron = "0 0 9 * * *"
	}
	if cfg.Treasury.LedgerFile == "" {
		cfg.Treasury.LedgerFile = "data/ledger.json"
	}
	if cfg.Treasury.UnlocksFile == "" {
		cfg.Treasury.UnlocksFile = "data/unlocks.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/treasury_audit.db"
	}

	return cfg, nil
}

// Validate checks the fields the daemon cannot run without.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.Sales.Source {
	case "file":
		if c.Sales.DropFile == "" {
			return fmt.Errorf("sales.drop_file is required for the file source")
		}
	case "http":
		if c.Sales.BaseURL == "" {
			return fmt.Errorf("sales.base_url is required for the http source")
		}
	default:
		return fmt.Errorf("sales.source must be \"file\" or \"http\", got %q", c.Sales.Source)
	}
	return nil
}
