package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var reservesCmd = &cobra.Command{
	Use:   "reserves",
	Short: "Show the protocol's reserve composition",
	Long: `Query the reserve balances backing the fund token. A non-zero error code
means the remote read was partial or degraded; entries are still printed.`,
	RunE: runReserves,
}

func init() {
	rootCmd.AddCommand(reservesCmd)
}

func runReserves(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel)
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("Configuration error", "error", err)
		return err
	}

	chain, client, err := newClients(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect", "error", err)
		return err
	}
	defer chain.Close()

	reserves, err := client.ReserveValues(ctx)
	if err != nil {
		slog.Error("Reserve query failed", "error", err)
		return err
	}

	for _, r := range reserves {
		if r.ErrorCode.Sign() != 0 {
			slog.Warn("Reserve read degraded", "error_code", r.ErrorCode.String(), "token", r.Token.Hex())
		}
		fmt.Printf("%s  %s\n", r.Token.Hex(), r.Amount)
	}
	return nil
}
