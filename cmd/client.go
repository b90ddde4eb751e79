package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gyrostable/gyro-go/internal/amount"
	"github.com/gyrostable/gyro-go/internal/blockchain"
	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/gyro"
)

// newClients builds the chain boundary and the orchestration client from
// loaded configuration.
func newClients(ctx context.Context, cfg *config.Config) (*blockchain.Client, *gyro.Client, error) {
	chain, err := blockchain.NewClient(ctx, cfg.RPCUrl, cfg.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return chain, gyro.NewClient(chain), nil
}

// parseBasket parses ADDRESS=AMOUNT basket legs from the command line.
// Amounts are human-readable decimals; each token's precision is queried
// from its contract to scale them correctly.
func parseBasket(ctx context.Context, chain *blockchain.Client, args []string) ([]gyro.TokenAmount, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one ADDRESS=AMOUNT basket leg is required")
	}

	basket := make([]gyro.TokenAmount, 0, len(args))
	for _, arg := range args {
		addr, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("invalid basket leg %q: expected ADDRESS=AMOUNT", arg)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid token address %q", addr)
		}
		token := common.HexToAddress(addr)

		decimals, err := chain.TokenDecimals(ctx, token)
		if err != nil {
			return nil, err
		}
		amt, err := amount.FromString(value, decimals)
		if err != nil {
			return nil, err
		}
		basket = append(basket, gyro.NewTokenAmountFromAmount(token, amt))
	}
	return basket, nil
}

// gyroFundRef references the fund token with its known fixed precision,
// skipping the decimals query.
func gyroFundRef(chain *blockchain.Client) gyro.TokenRef {
	return gyro.TokenWithDecimals(chain.FundAddress(), amount.GyroDecimals)
}

// parseBound parses an optional slippage bound at the fund token's
// precision. Empty means the zero amount, which accepts any outcome.
func parseBound(value string) (amount.Amount, error) {
	if value == "" {
		return amount.Zero(amount.GyroDecimals), nil
	}
	return amount.FromString(value, amount.GyroDecimals)
}
