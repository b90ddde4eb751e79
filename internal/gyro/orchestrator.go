package gyro

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gyrostable/gyro-go/internal/amount"
)

// Client orchestrates mint and redeem operations against one deployment.
type Client struct {
	chain Chain
}

// NewClient wraps a chain boundary in an orchestration client.
func NewClient(chain Chain) *Client {
	return &Client{chain: chain}
}

// Mint converts a basket of underlying tokens into the fund token.
//
// It plans the necessary approvals against the processor, submits them
// strictly sequentially (nonce ordering on the signer and the allowance
// dependency of the main call both require it), then submits the mint with
// the minimum-output guard. The zero Amount for minMinted accepts any
// outcome.
//
// On failure the returned Result still lists every approval submitted
// before the error; those transactions stay submitted and are not rolled
// back. No submission is retried here.
func (c *Client) Mint(ctx context.Context, inputs []TokenAmount, minMinted amount.Amount, approveFuture bool) (*Result, error) {
	owner := c.chain.Account()
	spender := c.chain.ProcessorAddress()

	plan, err := PlanApprovals(ctx, c.chain, inputs, owner, spender, approveFuture)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if err := c.submitApprovals(ctx, plan, spender, result); err != nil {
		return result, err
	}

	tokens, amounts := splitBasket(inputs)
	tx, err := c.chain.Mint(ctx, tokens, amounts, minMinted.Rescale(amount.GyroDecimals).Raw())
	if err != nil {
		return result, fmt.Errorf("mint failed: %w", err)
	}
	result.Main = tx

	slog.Info("Mint submitted",
		"tx", tx.Hash().Hex(),
		"inputs", len(inputs),
		"approvals", len(result.Approvals),
	)
	return result, nil
}

// Redeem burns the fund token for a basket of underlying tokens. Unlike
// Mint, the approval side is a single check: the fund token allowance
// granted to the processor must cover maxRedeemed. A zero maxRedeemed
// requires no allowance and accepts any amount burned.
func (c *Client) Redeem(ctx context.Context, outputs []TokenAmount, maxRedeemed amount.Amount, approveFuture bool) (*Result, error) {
	owner := c.chain.Account()
	spender := c.chain.ProcessorAddress()
	required := maxRedeemed.Rescale(amount.GyroDecimals).Raw()

	approval, err := PlanFundApproval(ctx, c.chain, owner, spender, required, approveFuture)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if approval != nil {
		if err := c.submitApprovals(ctx, []Approval{*approval}, spender, result); err != nil {
			return result, err
		}
	}

	tokens, amounts := splitBasket(outputs)
	tx, err := c.chain.Redeem(ctx, tokens, amounts, required)
	if err != nil {
		return result, fmt.Errorf("redeem failed: %w", err)
	}
	result.Main = tx

	slog.Info("Redeem submitted",
		"tx", tx.Hash().Hex(),
		"outputs", len(outputs),
		"approvals", len(result.Approvals),
	)
	return result, nil
}

// submitApprovals submits planned approvals one at a time, appending each
// submitted transaction to the result before moving on. The first failure
// aborts the sequence: submitting the main call against an insufficient
// allowance would only waste gas.
func (c *Client) submitApprovals(ctx context.Context, plan []Approval, spender common.Address, result *Result) error {
	for _, approval := range plan {
		tx, err := c.chain.Approve(ctx, approval.Token, spender, approval.Amount)
		if err != nil {
			return fmt.Errorf("approval for %s failed: %w", approval.Token.Hex(), err)
		}
		result.Approvals = append(result.Approvals, tx)
		slog.Debug("Approval submitted",
			"tx", tx.Hash().Hex(),
			"token", approval.Token.Hex(),
			"amount", approval.Amount.String(),
		)
	}
	return nil
}
