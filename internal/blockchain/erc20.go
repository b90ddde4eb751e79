package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// TokenMetadata is the on-chain descriptor of an ERC-20 token.
type TokenMetadata struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8
}

func (c *Client) tokenContract(token common.Address) *bind.BoundContract {
	if token == c.deployment.FundToken {
		return c.fundToken
	}
	return bind.NewBoundContract(token, c.erc20ABI, c.eth, c.eth, c.eth)
}

// Allowance queries the current allowance granted by owner to spender on
// the given token. Always queried fresh, never cached, so a later approval
// decision cannot act on stale state.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	contract := c.tokenContract(token)
	result, err := readCall(ctx, func() (*big.Int, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	})
	if err != nil {
		return nil, fmt.Errorf("allowance %s: %w", token.Hex(), err)
	}
	return result, nil
}

// Approve submits an approval transaction for the given token and spender.
// It returns as soon as the transaction is submitted; confirmation is the
// caller's concern.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.tokenContract(token).Transact(opts, "approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("approve %s: %w", token.Hex(), err)
	}
	return tx, nil
}

// BalanceOf queries the token balance of holder.
func (c *Client) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	contract := c.tokenContract(token)
	result, err := readCall(ctx, func() (*big.Int, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", holder); err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	})
	if err != nil {
		return nil, fmt.Errorf("balanceOf %s: %w", token.Hex(), err)
	}
	return result, nil
}

// TotalSupply queries the total supply of the token.
func (c *Client) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	contract := c.tokenContract(token)
	result, err := readCall(ctx, func() (*big.Int, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "totalSupply"); err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	})
	if err != nil {
		return nil, fmt.Errorf("totalSupply %s: %w", token.Hex(), err)
	}
	return result, nil
}

// TokenDecimals queries the decimal precision of the token contract.
func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	contract := c.tokenContract(token)
	result, err := readCall(ctx, func() (uint8, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
			return 0, err
		}
		return out[0].(uint8), nil
	})
	if err != nil {
		return 0, fmt.Errorf("decimals %s: %w", token.Hex(), err)
	}
	return result, nil
}

// TokenMetadata queries name, symbol and decimals of the token contract.
func (c *Client) TokenMetadata(ctx context.Context, token common.Address) (TokenMetadata, error) {
	contract := c.tokenContract(token)
	md := TokenMetadata{Address: token}

	name, err := readCall(ctx, func() (string, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "name"); err != nil {
			return "", err
		}
		return out[0].(string), nil
	})
	if err != nil {
		return md, fmt.Errorf("name %s: %w", token.Hex(), err)
	}
	md.Name = name

	symbol, err := readCall(ctx, func() (string, error) {
		var out []any
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "symbol"); err != nil {
			return "", err
		}
		return out[0].(string), nil
	})
	if err != nil {
		return md, fmt.Errorf("symbol %s: %w", token.Hex(), err)
	}
	md.Symbol = symbol

	decimals, err := c.TokenDecimals(ctx, token)
	if err != nil {
		return md, err
	}
	md.Decimals = decimals

	return md, nil
}
