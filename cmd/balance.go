package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var balanceHolder string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show fund token balance and underlying holdings",
	Long: `Query the fund token balance, the fund's total supply, and the holder's
balance of every supported underlying token.`,
	RunE: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceHolder, "holder", "", "address to query (default: the configured signer)")
}

func runBalance(cmd *cobra.Command, args []string) error {
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

	holder := common.Address{}
	if balanceHolder != "" {
		if !common.IsHexAddress(balanceHolder) {
			return fmt.Errorf("invalid holder address %q", balanceHolder)
		}
		holder = common.HexToAddress(balanceHolder)
	}

	balance, err := client.TokenBalance(ctx, gyroFundRef(chain), holder)
	if err != nil {
		slog.Error("Balance query failed", "error", err)
		return err
	}
	supply, err := client.TotalSupply(ctx)
	if err != nil {
		slog.Error("Supply query failed", "error", err)
		return err
	}

	fmt.Printf("fund balance: %s\n", balance)
	fmt.Printf("total supply: %s\n", supply)

	holdings, err := client.Holdings(ctx, holder)
	if err != nil {
		slog.Error("Holdings query failed", "error", err)
		return err
	}
	for _, h := range holdings {
		fmt.Printf("%-8s %s  (%s)\n", h.Metadata.Symbol, h.Balance, h.Metadata.Address.Hex())
	}
	return nil
}
