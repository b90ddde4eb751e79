package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var (
	minMinted     string
	approveFuture bool
)

var mintCmd = &cobra.Command{
	Use:   "mint ADDRESS=AMOUNT [ADDRESS=AMOUNT...]",
	Short: "Mint fund tokens from a basket of underlying tokens",
	Long: `Submit the approval transactions required for the input basket, then the
mint transaction itself. Approvals are submitted sequentially; tokens whose
allowance already covers the requested amount are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMint,
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVar(&minMinted, "min-minted", "", "minimum fund tokens to accept (default: any)")
	mintCmd.Flags().BoolVar(&approveFuture, "approve-future", false, "approve an effectively unlimited allowance instead of the exact amount")
}

func runMint(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel)
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("Configuration error", "error", err)
		return err
	}
	if cfg.ApproveFuture && !cmd.Flags().Changed("approve-future") {
		approveFuture = true
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

	bound, err := parseBound(minMinted)
	if err != nil {
		return err
	}

	result, err := client.Mint(ctx, basket, bound, approveFuture)
	if err != nil {
		// Approvals submitted before the failure stay submitted; report them
		// so the operator knows what already went out.
		if result != nil {
			for _, tx := range result.Approvals {
				slog.Warn("Approval was submitted before failure", "tx", tx.Hash().Hex())
			}
		}
		slog.Error("Mint failed", "error", err)
		return err
	}

	for _, tx := range result.Approvals {
		fmt.Printf("approval: %s\n", tx.Hash().Hex())
	}
	fmt.Printf("mint: %s\n", result.Main.Hash().Hex())
	return nil
}
