package gyro

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// UnlimitedAllowance is the sentinel approved when future approvals should
// be avoided: 10^50, effectively infinite for any real token supply while
// staying far below uint256 overflow territory.
var UnlimitedAllowance = new(big.Int).Exp(big.NewInt(10), big.NewInt(50), nil)

// Approval is one approval transaction the resolver decided is required.
type Approval struct {
	Token  common.Address
	Amount *big.Int
}

// PlanApprovals decides which tokens of the basket need a fresh approval
// for the given spender. Current allowances are queried concurrently (they
// are independent reads); the returned plan preserves basket order. Tokens
// whose allowance already covers the requirement produce no approval, so
// repeated calls against unchanged on-chain state plan nothing.
//
// With approveFuture the approved amount is UnlimitedAllowance instead of
// the exact requirement, saving one approval transaction per subsequent
// operation with the same spender.
func PlanApprovals(ctx context.Context, chain Chain, basket []TokenAmount, owner, spender common.Address, approveFuture bool) ([]Approval, error) {
	current := make([]*big.Int, len(basket))

	g, gctx := errgroup.WithContext(ctx)
	for i, leg := range basket {
		g.Go(func() error {
			allowance, err := chain.Allowance(gctx, leg.Token, owner, spender)
			if err != nil {
				return err
			}
			current[i] = allowance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to query allowances: %w", err)
	}

	var plan []Approval
	for i, leg := range basket {
		if current[i].Cmp(leg.Amount) >= 0 {
			continue
		}
		approved := new(big.Int).Set(leg.Amount)
		if approveFuture {
			approved = new(big.Int).Set(UnlimitedAllowance)
		}
		plan = append(plan, Approval{Token: leg.Token, Amount: approved})
	}
	return plan, nil
}

// PlanFundApproval is the redemption-side variant: a single allowance check
// of the fund (governance) token against the processor, independent of the
// output basket. It returns nil when the current allowance already covers
// the requirement.
func PlanFundApproval(ctx context.Context, chain Chain, owner, spender common.Address, required *big.Int, approveFuture bool) (*Approval, error) {
	current, err := chain.Allowance(ctx, chain.FundAddress(), owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund allowance: %w", err)
	}
	if current.Cmp(required) >= 0 {
		return nil, nil
	}
	approved := new(big.Int).Set(required)
	if approveFuture {
		approved = new(big.Int).Set(UnlimitedAllowance)
	}
	return &Approval{Token: chain.FundAddress(), Amount: approved}, nil
}
