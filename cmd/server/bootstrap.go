package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"papertrader/internal/ledger"
	"papertrader/internal/ledger/filestore"
	"papertrader/internal/ledger/sheetstore"
	"papertrader/internal/logger"
	"papertrader/internal/oracle"
	"papertrader/internal/store"
)

// initializeSystem loads environment variables and sets up logging/tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func configPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

// buildStore picks the ledger backend from config. Credentials come from
// the environment, never from the config file.
func buildStore(cfg *store.Config) ledger.Store {
	switch cfg.Ledger.Backend {
	case "SHEET":
		return sheetstore.New(sheetstore.Params{
			SpreadsheetID: cfg.Ledger.SpreadsheetID,
			SheetRange:    cfg.Ledger.SheetRange,
			AccessToken:   os.Getenv("SHEETS_ACCESS_TOKEN"),
		})
	default:
		return filestore.New(cfg.Ledger.FilePath)
	}
}

// buildQuoter picks the price oracle backend from config.
func buildQuoter(cfg *store.Config) oracle.Quoter {
	switch cfg.Oracle.Provider {
	case "KITE":
		return oracle.NewKite(
			os.Getenv("KITE_API_KEY"),
			os.Getenv("KITE_ACCESS_TOKEN"),
			cfg.Oracle.Exchange,
		)
	default:
		var scraper *oracle.NameScraper
		if cfg.Oracle.ScrapeNames {
			scraper = oracle.NewNameScraper(time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second)
		}
		return oracle.NewYahoo(oracle.YahooParams{
			Timeout:      time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second,
			RateBurst:    cfg.Oracle.RateBurst,
			RateInterval: time.Duration(cfg.Oracle.RateIntervalMS) * time.Millisecond,
			Scraper:      scraper,
		})
	}
}
