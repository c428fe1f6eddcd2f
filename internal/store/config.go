package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"papertrader/internal/retry"
)

// RetrySpec is the yaml form of a retry policy.
type RetrySpec struct {
	MaxAttempts        int `yaml:"max_attempts"`
	InitialWaitSeconds int `yaml:"initial_wait_seconds"`
	MaxWaitSeconds     int `yaml:"max_wait_seconds"`
}

// Policy converts the spec into a retry.Policy.
func (r RetrySpec) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: r.MaxAttempts,
		InitialWait: time.Duration(r.InitialWaitSeconds) * time.Second,
		MaxWait:     time.Duration(r.MaxWaitSeconds) * time.Second,
	}
}

type Config struct {
	SeedMoney float64 `yaml:"seed_money"`

	Ledger struct {
		Backend       string    `yaml:"backend"` // SHEET or FILE
		SpreadsheetID string    `yaml:"spreadsheet_id"`
		SheetRange    string    `yaml:"sheet_range"`
		FilePath      string    `yaml:"file_path"`
		Connect       RetrySpec `yaml:"connect"`
		Append        RetrySpec `yaml:"append"`
	} `yaml:"ledger"`

	Oracle struct {
		Provider       string `yaml:"provider"` // YAHOO or KITE
		Exchange       string `yaml:"exchange"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RateBurst      int    `yaml:"rate_burst"`
		RateIntervalMS int    `yaml:"rate_interval_ms"`
		ScrapeNames    bool   `yaml:"scrape_names"`
	} `yaml:"oracle"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	if c.SeedMoney <= 0 {
		return fmt.Errorf("seed_money must be positive, got %.0f", c.SeedMoney)
	}
	if c.Ledger.Backend != "SHEET" && c.Ledger.Backend != "FILE" {
		return fmt.Errorf("invalid ledger.backend '%s': must be 'SHEET' or 'FILE'", c.Ledger.Backend)
	}
	if c.Ledger.Backend == "SHEET" && c.Ledger.SpreadsheetID == "" {
		return errors.New("ledger.spreadsheet_id is required for the SHEET backend")
	}
	if c.Ledger.Backend == "FILE" && c.Ledger.FilePath == "" {
		return errors.New("ledger.file_path is required for the FILE backend")
	}
	if c.Oracle.Provider != "YAHOO" && c.Oracle.Provider != "KITE" {
		return fmt.Errorf("invalid oracle.provider '%s': must be 'YAHOO' or 'KITE'", c.Oracle.Provider)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.SeedMoney == 0 {
		c.SeedMoney = 10_000_000
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "FILE"
	}
	if c.Ledger.Backend == "FILE" && c.Ledger.FilePath == "" {
		c.Ledger.FilePath = "data/ledger.csv"
	}
	if c.Ledger.Connect.MaxAttempts == 0 {
		c.Ledger.Connect = RetrySpec{MaxAttempts: 5, InitialWaitSeconds: 2, MaxWaitSeconds: 10}
	}
	if c.Ledger.Append.MaxAttempts == 0 {
		c.Ledger.Append = RetrySpec{MaxAttempts: 3, InitialWaitSeconds: 2, MaxWaitSeconds: 60}
	}
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = "YAHOO"
	}
	if c.Oracle.TimeoutSeconds == 0 {
		c.Oracle.TimeoutSeconds = 15
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
