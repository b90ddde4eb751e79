package gyro

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/gyrostable/gyro-go/internal/amount"
)

// EstimateMinted returns how much fund token the input basket would mint,
// at the protocol's fixed precision. Pure read, no approvals involved.
func (c *Client) EstimateMinted(ctx context.Context, inputs []TokenAmount) (amount.Amount, error) {
	tokens, amounts := splitBasket(inputs)
	raw, err := c.chain.EstimateMinted(ctx, tokens, amounts)
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.FromRaw(raw, amount.GyroDecimals), nil
}

// EstimateRedeemed returns how much fund token redeeming the output basket
// would burn.
func (c *Client) EstimateRedeemed(ctx context.Context, outputs []TokenAmount) (amount.Amount, error) {
	tokens, amounts := splitBasket(outputs)
	raw, err := c.chain.EstimateRedeemed(ctx, tokens, amounts)
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.FromRaw(raw, amount.GyroDecimals), nil
}

// Balance returns the signer's fund token balance.
func (c *Client) Balance(ctx context.Context) (amount.Amount, error) {
	raw, err := c.chain.BalanceOf(ctx, c.chain.FundAddress(), c.chain.Account())
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.FromRaw(raw, amount.GyroDecimals), nil
}

// TotalSupply returns the fund token's total supply.
func (c *Client) TotalSupply(ctx context.Context) (amount.Amount, error) {
	raw, err := c.chain.TotalSupply(ctx, c.chain.FundAddress())
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.FromRaw(raw, amount.GyroDecimals), nil
}

// TokenBalance returns a holder's balance of an arbitrary token at that
// token's own precision. The zero holder address means the signer. When
// the ref carries no precision the token contract is queried for it, so
// tokens with heterogeneous decimals always come back correctly scaled.
func (c *Client) TokenBalance(ctx context.Context, ref TokenRef, holder common.Address) (amount.Amount, error) {
	if holder == (common.Address{}) {
		holder = c.chain.Account()
	}
	decimals, err := ref.resolveDecimals(ctx, c.chain)
	if err != nil {
		return amount.Amount{}, err
	}
	raw, err := c.chain.BalanceOf(ctx, ref.Address, holder)
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.FromRaw(raw, decimals), nil
}

// ReserveValues returns the protocol's reserve composition: one entry per
// underlying token, positionally zipped from the remote call's two parallel
// sequences. The per-read error code is attached to every entry untouched.
func (c *Client) ReserveValues(ctx context.Context) ([]Reserve, error) {
	errorCode, tokens, amounts, err := c.chain.ReserveValues(ctx)
	if err != nil {
		return nil, err
	}
	if len(tokens) != len(amounts) {
		return nil, fmt.Errorf("reserve response misaligned: %d addresses, %d amounts", len(tokens), len(amounts))
	}

	reserves := make([]Reserve, len(tokens))
	for i, token := range tokens {
		reserves[i] = Reserve{
			ErrorCode: errorCode,
			Token:     token,
			Amount:    amount.FromRaw(amounts[i], amount.GyroDecimals),
		}
	}
	return reserves, nil
}

// Holdings returns the holder's balance and metadata for every supported
// underlying token. Metadata and balance reads are independent per token
// and run concurrently; results stay in the protocol's token order.
func (c *Client) Holdings(ctx context.Context, holder common.Address) ([]TokenHolding, error) {
	if holder == (common.Address{}) {
		holder = c.chain.Account()
	}

	tokens, err := c.chain.SupportedTokens(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]TokenHolding, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	for i, token := range tokens {
		g.Go(func() error {
			md, err := c.chain.TokenMetadata(gctx, token)
			if err != nil {
				return err
			}
			raw, err := c.chain.BalanceOf(gctx, token, holder)
			if err != nil {
				return err
			}
			holdings[i] = TokenHolding{
				Metadata: md,
				Balance:  amount.FromRaw(raw, md.Decimals),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	return holdings, nil
}
