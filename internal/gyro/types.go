// Package gyro implements the client-side orchestration of the protocol's
// mint and redeem flows: allowance planning, sequential approval submission
// and the read-only estimation path. All on-chain access goes through the
// Chain interface so the logic is testable without an RPC endpoint.
package gyro

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/gyrostable/gyro-go/internal/amount"
	"github.com/gyrostable/gyro-go/internal/blockchain"
)

// Chain is the on-chain boundary the orchestration layer depends on.
// *blockchain.Client is the production implementation.
type Chain interface {
	// Account is the address of the currently selected signer.
	Account() common.Address
	// FundAddress is the protocol's governance/fund token.
	FundAddress() common.Address
	// ProcessorAddress is the mint/redeem contract, spender of all approvals.
	ProcessorAddress() common.Address

	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Transaction, error)
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	TokenMetadata(ctx context.Context, token common.Address) (blockchain.TokenMetadata, error)

	Mint(ctx context.Context, tokens []common.Address, amounts []*big.Int, minMinted *big.Int) (*types.Transaction, error)
	Redeem(ctx context.Context, tokens []common.Address, amounts []*big.Int, maxRedeemed *big.Int) (*types.Transaction, error)
	EstimateMinted(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error)
	EstimateRedeemed(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error)
	SupportedTokens(ctx context.Context) ([]common.Address, error)
	ReserveValues(ctx context.Context) (*big.Int, []common.Address, []*big.Int, error)
}

var _ Chain = (*blockchain.Client)(nil)

// TokenAmount is one leg of a mint or redeem basket: a token and its raw
// on-chain amount.
type TokenAmount struct {
	Token  common.Address
	Amount *big.Int
}

// NewTokenAmount builds a basket leg from a raw integer amount.
func NewTokenAmount(token common.Address, raw *big.Int) TokenAmount {
	return TokenAmount{Token: token, Amount: new(big.Int).Set(raw)}
}

// NewTokenAmountFromAmount builds a basket leg from a fixed-point amount,
// using its own precision as the token's on-chain scale.
func NewTokenAmountFromAmount(token common.Address, a amount.Amount) TokenAmount {
	return TokenAmount{Token: token, Amount: a.Raw()}
}

// splitBasket turns a basket into the two parallel slices the contract
// boundary expects, preserving order.
func splitBasket(basket []TokenAmount) ([]common.Address, []*big.Int) {
	tokens := make([]common.Address, len(basket))
	amounts := make([]*big.Int, len(basket))
	for i, leg := range basket {
		tokens[i] = leg.Token
		amounts[i] = leg.Amount
	}
	return tokens, amounts
}

// Result is the composite outcome of one orchestrated operation: the main
// mint/redeem transaction plus the approval transactions that preceded it,
// in submission order. All transactions are submitted, not confirmed;
// awaiting confirmation is the caller's responsibility. On a failed
// orchestration the Result still carries every transaction submitted before
// the failure.
type Result struct {
	Main      *types.Transaction
	Approvals []*types.Transaction
}

// TokenRef identifies a token for balance queries. Either the decimal
// precision is already known (descriptor form) or only the address is,
// in which case the token contract is queried for it.
type TokenRef struct {
	Address  common.Address
	decimals *uint8
}

// TokenByAddress references a token by address alone; its precision will be
// queried from the contract.
func TokenByAddress(address common.Address) TokenRef {
	return TokenRef{Address: address}
}

// TokenWithDecimals references a token whose precision is already known,
// skipping the decimals query.
func TokenWithDecimals(address common.Address, decimals uint8) TokenRef {
	return TokenRef{Address: address, decimals: &decimals}
}

func (r TokenRef) resolveDecimals(ctx context.Context, chain Chain) (uint8, error) {
	if r.decimals != nil {
		return *r.decimals, nil
	}
	return chain.TokenDecimals(ctx, r.Address)
}

// Reserve is one entry of the protocol's reserve snapshot. ErrorCode is the
// remote call's per-read status, passed through untouched: a non-zero code
// signals a partial or degraded read, and the caller decides whether that
// is fatal.
type Reserve struct {
	ErrorCode *big.Int
	Token     common.Address
	Amount    amount.Amount
}

// TokenHolding pairs a token's metadata with a holder's balance.
type TokenHolding struct {
	Metadata blockchain.TokenMetadata
	Balance  amount.Amount
}
