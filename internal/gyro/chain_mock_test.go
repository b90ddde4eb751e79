package gyro

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/gyrostable/gyro-go/internal/blockchain"
)

var (
	fundAddr      = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	processorAddr = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	ownerAddr     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenA        = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenB        = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	tokenC        = common.HexToAddress("0x00000000000000000000000000000000000000a3")
)

// fakeChain is an in-memory Chain. It records every mutating call in order
// so tests can assert approval/main-call sequencing.
type fakeChain struct {
	mu sync.Mutex

	allowances map[common.Address]*big.Int
	balances   map[common.Address]*big.Int
	decimals   map[common.Address]uint8
	supply     *big.Int
	supported  []common.Address

	estimatedMinted   *big.Int
	estimatedRedeemed *big.Int

	reserveCode    *big.Int
	reserveTokens  []common.Address
	reserveAmounts []*big.Int

	approveErrOn   map[common.Address]error
	mintErr        error
	redeemErr      error
	allowanceErrOn map[common.Address]error

	calls          []string
	decimalsCalls  int
	allowanceCalls int
	nonce          uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		allowances:     make(map[common.Address]*big.Int),
		balances:       make(map[common.Address]*big.Int),
		decimals:       make(map[common.Address]uint8),
		supply:         big.NewInt(0),
		approveErrOn:   make(map[common.Address]error),
		allowanceErrOn: make(map[common.Address]error),
		reserveCode:    big.NewInt(0),
	}
}

func (f *fakeChain) nextTx() *types.Transaction {
	f.nonce++
	return types.NewTx(&types.LegacyTx{Nonce: f.nonce})
}

func (f *fakeChain) Account() common.Address          { return ownerAddr }
func (f *fakeChain) FundAddress() common.Address      { return fundAddr }
func (f *fakeChain) ProcessorAddress() common.Address { return processorAddr }

func (f *fakeChain) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowanceCalls++
	f.calls = append(f.calls, "allowance:"+token.Hex())
	if err := f.allowanceErrOn[token]; err != nil {
		return nil, err
	}
	if a, ok := f.allowances[token]; ok {
		return new(big.Int).Set(a), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.approveErrOn[token]; err != nil {
		return nil, err
	}
	f.calls = append(f.calls, fmt.Sprintf("approve:%s:%s", token.Hex(), amount.String()))
	f.allowances[token] = new(big.Int).Set(amount)
	return f.nextTx(), nil
}

func (f *fakeChain) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[token]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.supply), nil
}

func (f *fakeChain) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decimalsCalls++
	d, ok := f.decimals[token]
	if !ok {
		return 0, fmt.Errorf("unknown token %s", token.Hex())
	}
	return d, nil
}

func (f *fakeChain) TokenMetadata(ctx context.Context, token common.Address) (blockchain.TokenMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.decimals[token]
	if !ok {
		return blockchain.TokenMetadata{}, fmt.Errorf("unknown token %s", token.Hex())
	}
	return blockchain.TokenMetadata{
		Address:  token,
		Name:     "Token " + token.Hex()[:6],
		Symbol:   "TOK",
		Decimals: d,
	}, nil
}

func (f *fakeChain) Mint(ctx context.Context, tokens []common.Address, amounts []*big.Int, minMinted *big.Int) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mintErr != nil {
		return nil, f.mintErr
	}
	f.calls = append(f.calls, fmt.Sprintf("mint:%d:%s", len(tokens), minMinted.String()))
	return f.nextTx(), nil
}

func (f *fakeChain) Redeem(ctx context.Context, tokens []common.Address, amounts []*big.Int, maxRedeemed *big.Int) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	f.calls = append(f.calls, fmt.Sprintf("redeem:%d:%s", len(tokens), maxRedeemed.String()))
	return f.nextTx(), nil
}

func (f *fakeChain) EstimateMinted(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.estimatedMinted), nil
}

func (f *fakeChain) EstimateRedeemed(ctx context.Context, tokens []common.Address, amounts []*big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.estimatedRedeemed), nil
}

func (f *fakeChain) SupportedTokens(ctx context.Context) ([]common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]common.Address(nil), f.supported...), nil
}

func (f *fakeChain) ReserveValues(ctx context.Context) (*big.Int, []common.Address, []*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.reserveCode),
		append([]common.Address(nil), f.reserveTokens...),
		append([]*big.Int(nil), f.reserveAmounts...),
		nil
}

// mutatingCalls filters the call log down to approvals and main calls.
func (f *fakeChain) mutatingCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if len(c) > 9 && c[:9] == "allowance" {
			continue
		}
		out = append(out, c)
	}
	return out
}
