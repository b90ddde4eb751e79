package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var estimateRedeem bool

var estimateCmd = &cobra.Command{
	Use:   "estimate ADDRESS=AMOUNT [ADDRESS=AMOUNT...]",
	Short: "Estimate the fund tokens minted or redeemed for a basket",
	Long: `Query the processor for the amount of fund token the basket would mint
(or, with --redeem, burn). Read-only: no approvals, no transactions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().BoolVar(&estimateRedeem, "redeem", false, "estimate a redemption instead of a mint")
}

func runEstimate(cmd *cobra.Command, args []string) error {
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

	basket, err := parseBasket(ctx, chain, args)
	if err != nil {
		return err
	}

	if estimateRedeem {
		estimated, err := client.EstimateRedeemed(ctx, basket)
		if err != nil {
			slog.Error("Estimation failed", "error", err)
			return err
		}
		fmt.Printf("estimated redeemed: %s\n", estimated)
		return nil
	}

	estimated, err := client.EstimateMinted(ctx, basket)
	if err != nil {
		slog.Error("Estimation failed", "error", err)
		return err
	}
	fmt.Printf("estimated minted: %s\n", estimated)
	return nil
}
