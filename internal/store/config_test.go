package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.SeedMoney != 10_000_000 {
		t.Errorf("Expected default seed money, got %f", cfg.SeedMoney)
	}
	if cfg.Ledger.Backend != "FILE" || cfg.Ledger.FilePath != "data/ledger.csv" {
		t.Errorf("Unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.Ledger.Connect.MaxAttempts != 5 || cfg.Ledger.Append.MaxAttempts != 3 {
		t.Errorf("Unexpected retry defaults: connect %+v, append %+v", cfg.Ledger.Connect, cfg.Ledger.Append)
	}
	if cfg.Oracle.Provider != "YAHOO" || cfg.Oracle.TimeoutSeconds != 15 {
		t.Errorf("Unexpected oracle defaults: %+v", cfg.Oracle)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Unexpected server default: %+v", cfg.Server)
	}
}

func TestLoadConfigFull(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
seed_money: 5000000
ledger:
  backend: SHEET
  spreadsheet_id: sheet-123
  sheet_range: Trades
  connect:
    max_attempts: 7
    initial_wait_seconds: 1
    max_wait_seconds: 4
oracle:
  provider: KITE
  exchange: NSE
server:
  addr: ":9090"
`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.SeedMoney != 5_000_000 {
		t.Errorf("Expected seed 5000000, got %f", cfg.SeedMoney)
	}
	if cfg.Ledger.SpreadsheetID != "sheet-123" || cfg.Ledger.SheetRange != "Trades" {
		t.Errorf("Unexpected ledger config: %+v", cfg.Ledger)
	}
	p := cfg.Ledger.Connect.Policy()
	if p.MaxAttempts != 7 || p.InitialWait != time.Second || p.MaxWait != 4*time.Second {
		t.Errorf("Unexpected connect policy: %+v", p)
	}
	if cfg.Oracle.Provider != "KITE" || cfg.Oracle.Exchange != "NSE" {
		t.Errorf("Unexpected oracle config: %+v", cfg.Oracle)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Unexpected addr: %q", cfg.Server.Addr)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative seed", "seed_money: -1"},
		{"unknown backend", "ledger:\n  backend: REDIS"},
		{"sheet without id", "ledger:\n  backend: SHEET"},
		{"unknown provider", "oracle:\n  provider: BLOOMBERG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
