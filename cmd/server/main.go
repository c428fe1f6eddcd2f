package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papertrader/internal/account"
	"papertrader/internal/engine"
	"papertrader/internal/ledger"
	"papertrader/internal/logger"
	"papertrader/internal/server"
	"papertrader/internal/store"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := store.LoadConfig(configPath())
	must(err)

	conn := &ledger.Connector{
		Store:         buildStore(cfg),
		ConnectPolicy: cfg.Ledger.Connect.Policy(),
		AppendPolicy:  cfg.Ledger.Append.Policy(),
	}

	led, entries, err := conn.Connect(ctx)
	if err != nil {
		// No ledger, no trading: abort initialization.
		logger.ErrorWithErr(ctx, "Ledger connection failed, aborting", err)
		os.Exit(1)
	}

	portfolio := account.New(cfg.SeedMoney)
	portfolio.Replay(ctx, entries)
	logger.Info(ctx, "Portfolio reconstructed",
		"entries", len(entries),
		"balance", portfolio.Balance,
		"holdings", len(portfolio.Holdings),
	)

	eng := engine.New(portfolio, led, buildQuoter(cfg))
	srv := server.New(cfg.Server.Addr, eng)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
			cancel()
		}
	}()

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = logger.Shutdown(shutdownCtx)
}
