package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/gyro"
	"github.com/gyrostable/gyro-go/internal/health"
	"github.com/gyrostable/gyro-go/internal/logger"
	"github.com/gyrostable/gyro-go/internal/scheduler"
	"github.com/gyrostable/gyro-go/internal/storage"
)

var watchInterval string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically snapshot reserves and fund supply to PostgreSQL",
	Long: `Poll the protocol's reserve composition and fund token supply at a fixed
interval and persist each snapshot. Read-only: no approvals or transactions
are submitted. Requires DATABASE_URL.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "poll interval (e.g. 5m), overrides config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel)

	// Context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		slog.Info("Signal received, graceful shutdown", "signal", sig)
		cancel()
	}()

	cfg, databaseURL, err := config.LoadWithDatabase(cfgFile)
	if err != nil {
		slog.Error("Configuration error", "error", err)
		return err
	}
	if cfg.LogLevel != "" {
		logger.Setup(cfg.LogLevel)
	}

	interval := cfg.WatchInterval()
	if watchInterval != "" {
		interval, err = time.ParseDuration(watchInterval)
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
	}

	if err := storage.RunMigrations(ctx, databaseURL); err != nil {
		slog.Error("Migration failed", "error", err)
		return err
	}

	store, err := storage.NewStore(ctx, databaseURL)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		return err
	}
	defer store.Close()
	slog.Info("PostgreSQL connection established")

	chain, client, err := newClients(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to RPC", "error", err)
		return err
	}
	defer chain.Close()
	slog.Info("RPC connection established",
		"chain_id", chain.ChainID().String(),
		"fund", chain.FundAddress().Hex(),
		"processor", chain.ProcessorAddress().Hex(),
	)

	healthChecker := health.NewChecker(store, chain, interval)
	jobFunc := func(jobCtx context.Context) error {
		err := pollOnce(jobCtx, client, store)
		healthChecker.UpdateLastRun(err == nil)
		return err
	}

	sched, err := scheduler.NewScheduler(ctx, scheduler.Config{
		Interval:       interval,
		RunImmediately: true,
		Logger:         slog.Default(),
	}, jobFunc)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		return fmt.Errorf("scheduler creation failed: %w", err)
	}
	defer sched.Stop()

	httpPort := cfg.HTTPPort
	if httpPort == 0 {
		httpPort = 8080
	}
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpPort),
		Handler: healthChecker.Router(),
	}

	go func() {
		slog.Info("Health check server starting", "port", httpPort, "endpoint", "/health")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Health server shutdown error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	slog.Info("Watch mode started", "interval", interval.String())

	<-ctx.Done()
	slog.Info("Shutdown requested, stopping watch mode")
	return nil
}

// pollOnce captures one reserve + supply snapshot and persists it.
func pollOnce(ctx context.Context, client *gyro.Client, store *storage.Store) error {
	queriedAt := time.Now().UTC()

	reserves, err := client.ReserveValues(ctx)
	if err != nil {
		return err
	}

	snapshots := make([]storage.ReserveSnapshot, len(reserves))
	for i, r := range reserves {
		if r.ErrorCode.Sign() != 0 {
			slog.Warn("Reserve read degraded", "error_code", r.ErrorCode.String(), "token", r.Token.Hex())
		}
		snapshots[i] = storage.ReserveSnapshot{
			QueriedAt:    queriedAt,
			ErrorCode:    r.ErrorCode.String(),
			TokenAddress: r.Token.Hex(),
			RawAmount:    r.Amount.Raw(),
			Amount:       r.Amount.Decimal(),
		}
		slog.Info("Reserve value",
			"token", r.Token.Hex(),
			"amount", r.Amount.String(),
		)
	}

	supply, err := client.TotalSupply(ctx)
	if err != nil {
		return err
	}
	slog.Info("Fund supply", "total_supply", supply.String())

	if err := store.BatchInsertReserves(ctx, snapshots); err != nil {
		return err
	}
	if err := store.InsertFundSnapshot(ctx, storage.FundSnapshot{
		QueriedAt:   queriedAt,
		TotalSupply: supply.Decimal(),
	}); err != nil {
		return err
	}

	slog.Info("Snapshot persisted", "reserves", len(snapshots))
	return nil
}
