package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var (
	maxRedeemed         string
	redeemApproveFuture bool
)

var redeemCmd = &cobra.Command{
	Use:   "redeem ADDRESS=AMOUNT [ADDRESS=AMOUNT...]",
	Short: "Redeem fund tokens for a basket of underlying tokens",
	Long: `Submit the fund token approval if the processor's current allowance does
not cover --max-redeemed, then the redeem transaction itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRedeem,
}

func init() {
	rootCmd.AddCommand(redeemCmd)

	redeemCmd.Flags().StringVar(&maxRedeemed, "max-redeemed", "", "maximum fund tokens to burn (default: any)")
	redeemCmd.Flags().BoolVar(&redeemApproveFuture, "approve-future", false, "approve an effectively unlimited allowance instead of the exact amount")
}

func runRedeem(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel)
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("Configuration error", "error", err)
		return err
	}
	if cfg.ApproveFuture && !cmd.Flags().Changed("approve-future") {
		redeemApproveFuture = true
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

	bound, err := parseBound(maxRedeemed)
	if err != nil {
		return err
	}

	result, err := client.Redeem(ctx, basket, bound, redeemApproveFuture)
	if err != nil {
		if result != nil {
			for _, tx := range result.Approvals {
				slog.Warn("Approval was submitted before failure", "tx", tx.Hash().Hex())
			}
		}
		slog.Error("Redeem failed", "error", err)
		return err
	}

	for _, tx := range result.Approvals {
		fmt.Printf("approval: %s\n", tx.Hash().Hex())
	}
	fmt.Printf("redeem: %s\n", result.Main.Hash().Hex())
	return nil
}
