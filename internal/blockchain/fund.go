package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const fundABI = `[
	{"constant":false,"inputs":[{"name":"_tokensIn","type":"address[]"},{"name":"_amountsIn","type":"uint256[]"},{"name":"_minGyroMinted","type":"uint256"}],"name":"mintFromUnderlyingTokens","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"_tokensOut","type":"address[]"},{"name":"_amountsOut","type":"uint256[]"},{"name":"_maxGyroRedeemed","type":"uint256"}],"name":"redeemToUnderlyingTokens","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"_tokensIn","type":"address[]"},{"name":"_amountsIn","type":"uint256[]"}],"name":"estimateMintedGyro","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"_tokensOut","type":"address[]"},{"name":"_amountsOut","type":"uint256[]"}],"name":"estimateRedeemedGyro","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"getSupportedTokens","outputs":[{"name":"","type":"address[]"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"getReserveValues","outputs":[{"name":"","type":"uint256"},{"name":"","type":"address[]"},{"name":"","type":"uint256[]"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// Mint submits the main mint transaction: the full input basket plus the
// minimum-output guard. Approvals must have been submitted beforehand.
func (c *Client) Mint(ctx context.Context, tokens []common.Address, amounts []*big.Int, minMinted *big.Int) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.processor.Transact(opts, "mintFromUnderlyingTokens", tokens, amounts, minMinted)
	if err != nil {
		return nil, fmt.Errorf("mintFromUnderlyingTokens: %w", err)
	}
	return tx, nil
}

// Redeem submits the main redeem transaction: the output basket plus the
// maximum-input guard.
func (c *Client) Redeem(ctx context.Context, tokens []common.Address, amounts []*big.Int, maxRedeemed *big.Int) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.processor.Transact(opts, "redeemToUnderlyingTokens", tokens, amounts, maxRedeemed)
	if err != nil {
		return nil, fmt.Errorf("redeemToUnderlyingTokens: %w", err)
	}
	return tx, nil
}

// EstimateMinted asks the processor how much fund token the basket would
// mint. Read-only, no allowance required.
func (c *Client) EstimateMinted(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error) {
	result, err := readCall(ctx, func() (*big.Int, error) {
		var out []any
		if err := c.processor.Call(&bind.CallOpts{Context: ctx}, &out, "estimateMintedGyro", tokens, amounts); err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	})
	if err != nil {
		return nil, fmt.Errorf("estimateMintedGyro: %w", err)
	}
	return result, nil
}

// EstimateRedeemed asks the processor how much fund token redeeming the
// basket would burn.
func (c *Client) EstimateRedeemed(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error) {
	result, err := readCall(ctx, func() (*big.Int, error) {
		var out []any
		if err := c.processor.Call(&bind.CallOpts{Context: ctx}, &out, "estimateRedeemedGyro", tokens, amounts); err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	})
	if err != nil {
		return nil, fmt.Errorf("estimateRedeemedGyro: %w", err)
	}
	return result, nil
}

// SupportedTokens returns the underlying tokens accepted by the protocol.
func (c *Client) SupportedTokens(ctx context.Context) ([]common.Address, error) {
	result, err := readCall(ctx, func() ([]common.Address, error) {
		var out []any
		if err := c.processor.Call(&bind.CallOpts{Context: ctx}, &out, "getSupportedTokens"); err != nil {
			return nil, err
		}
		return out[0].([]common.Address), nil
	})
	if err != nil {
		return nil, fmt.Errorf("getSupportedTokens: %w", err)
	}
	return result, nil
}

// ReserveValues returns the protocol's reserve snapshot: a per-read error
// code plus two index-aligned sequences of token addresses and amounts.
// The error code is passed through untouched; the caller decides whether a
// non-zero code is fatal.
func (c *Client) ReserveValues(ctx context.Context) (*big.Int, []common.Address, []*big.Int, error) {
	type reserves struct {
		errorCode *big.Int
		tokens    []common.Address
		amounts   []*big.Int
	}
	result, err := readCall(ctx, func() (reserves, error) {
		var out []any
		if err := c.processor.Call(&bind.CallOpts{Context: ctx}, &out, "getReserveValues"); err != nil {
			return reserves{}, err
		}
		return reserves{
			errorCode: out[0].(*big.Int),
			tokens:    out[1].([]common.Address),
			amounts:   out[2].([]*big.Int),
		}, nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("getReserveValues: %w", err)
	}
	return result.errorCode, result.tokens, result.amounts, nil
}
