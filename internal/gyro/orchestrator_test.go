package gyro

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyrostable/gyro-go/internal/amount"
)

func TestMint(t *testing.T) {
	t.Run("insufficient allowance approves then mints", func(t *testing.T) {
		chain := newFakeChain()
		chain.allowances[tokenA] = big.NewInt(100)
		client := NewClient(chain)

		inputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		result, err := client.Mint(context.Background(), inputs, amount.Zero(amount.GyroDecimals), false)
		require.NoError(t, err)

		require.Len(t, result.Approvals, 1)
		require.NotNil(t, result.Main)
		assert.Equal(t, []string{
			fmt.Sprintf("approve:%s:500", tokenA.Hex()),
			"mint:1:0",
		}, chain.mutatingCalls())
	})

	t.Run("sufficient allowance mints without approvals", func(t *testing.T) {
		chain := newFakeChain()
		chain.allowances[tokenA] = big.NewInt(1000)
		client := NewClient(chain)

		inputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		result, err := client.Mint(context.Background(), inputs, amount.Zero(amount.GyroDecimals), false)
		require.NoError(t, err)

		assert.Empty(t, result.Approvals)
		require.NotNil(t, result.Main)
		assert.Equal(t, []string{"mint:1:0"}, chain.mutatingCalls())
	})

	t.Run("approvals precede the mint in basket order", func(t *testing.T) {
		chain := newFakeChain()
		client := NewClient(chain)

		inputs := []TokenAmount{
			{Token: tokenA, Amount: big.NewInt(10)},
			{Token: tokenB, Amount: big.NewInt(20)},
			{Token: tokenC, Amount: big.NewInt(30)},
		}
		result, err := client.Mint(context.Background(), inputs, amount.Zero(amount.GyroDecimals), false)
		require.NoError(t, err)

		require.Len(t, result.Approvals, 3)
		assert.Equal(t, []string{
			fmt.Sprintf("approve:%s:10", tokenA.Hex()),
			fmt.Sprintf("approve:%s:20", tokenB.Hex()),
			fmt.Sprintf("approve:%s:30", tokenC.Hex()),
			"mint:3:0",
		}, chain.mutatingCalls())
	})

	t.Run("minMinted is rescaled to the fund precision", func(t *testing.T) {
		chain := newFakeChain()
		chain.allowances[tokenA] = big.NewInt(1000)
		client := NewClient(chain)

		minMinted, err := amount.FromString("1.5", amount.GyroDecimals)
		require.NoError(t, err)

		inputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		_, err = client.Mint(context.Background(), inputs, minMinted, false)
		require.NoError(t, err)

		assert.Equal(t, []string{"mint:1:1500000000000000000"}, chain.mutatingCalls())
	})

	t.Run("approval failure aborts before the mint", func(t *testing.T) {
		chain := newFakeChain()
		chain.approveErrOn[tokenB] = errors.New("execution reverted")
		client := NewClient(chain)

		inputs := []TokenAmount{
			{Token: tokenA, Amount: big.NewInt(10)},
			{Token: tokenB, Amount: big.NewInt(20)},
		}
		result, err := client.Mint(context.Background(), inputs, amount.Zero(amount.GyroDecimals), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execution reverted")

		// First approval was already submitted and must be visible to the
		// caller; no mint was attempted.
		require.NotNil(t, result)
		assert.Len(t, result.Approvals, 1)
		assert.Nil(t, result.Main)
		assert.Equal(t, []string{
			fmt.Sprintf("approve:%s:10", tokenA.Hex()),
		}, chain.mutatingCalls())
	})

	t.Run("mint failure preserves submitted approvals", func(t *testing.T) {
		chain := newFakeChain()
		chain.mintErr = errors.New("nonce too low")
		client := NewClient(chain)

		inputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(10)}}
		result, err := client.Mint(context.Background(), inputs, amount.Zero(amount.GyroDecimals), false)
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Len(t, result.Approvals, 1)
		assert.Nil(t, result.Main)
	})
}

func TestRedeem(t *testing.T) {
	t.Run("covered fund allowance redeems without approval", func(t *testing.T) {
		chain := newFakeChain()
		chain.allowances[fundAddr] = new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)
		client := NewClient(chain)

		maxRedeemed, err := amount.FromString("2", amount.GyroDecimals)
		require.NoError(t, err)

		outputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		result, err := client.Redeem(context.Background(), outputs, maxRedeemed, false)
		require.NoError(t, err)

		assert.Empty(t, result.Approvals)
		require.NotNil(t, result.Main)
		assert.Equal(t, []string{"redeem:1:2000000000000000000"}, chain.mutatingCalls())
	})

	t.Run("uncovered fund allowance approves the fund token first", func(t *testing.T) {
		chain := newFakeChain()
		client := NewClient(chain)

		maxRedeemed, err := amount.FromString("2", amount.GyroDecimals)
		require.NoError(t, err)

		outputs := []TokenAmount{
			{Token: tokenA, Amount: big.NewInt(500)},
			{Token: tokenB, Amount: big.NewInt(700)},
		}
		result, err := client.Redeem(context.Background(), outputs, maxRedeemed, false)
		require.NoError(t, err)

		require.Len(t, result.Approvals, 1)
		assert.Equal(t, []string{
			fmt.Sprintf("approve:%s:2000000000000000000", fundAddr.Hex()),
			"redeem:2:2000000000000000000",
		}, chain.mutatingCalls())
	})

	t.Run("approval check is independent of the output basket", func(t *testing.T) {
		chain := newFakeChain()
		client := NewClient(chain)

		maxRedeemed, err := amount.FromString("1", amount.GyroDecimals)
		require.NoError(t, err)

		outputs := []TokenAmount{
			{Token: tokenA, Amount: big.NewInt(500)},
			{Token: tokenB, Amount: big.NewInt(700)},
			{Token: tokenC, Amount: big.NewInt(900)},
		}
		_, err = client.Redeem(context.Background(), outputs, maxRedeemed, false)
		require.NoError(t, err)

		// Exactly one allowance query, and only against the fund token.
		assert.Equal(t, 1, chain.allowanceCalls)
		assert.Equal(t, "allowance:"+fundAddr.Hex(), chain.calls[0])
	})

	t.Run("zero bound requires no allowance", func(t *testing.T) {
		chain := newFakeChain()
		client := NewClient(chain)

		outputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		result, err := client.Redeem(context.Background(), outputs, amount.Zero(amount.GyroDecimals), false)
		require.NoError(t, err)
		assert.Empty(t, result.Approvals)
	})

	t.Run("redeem failure preserves submitted approval", func(t *testing.T) {
		chain := newFakeChain()
		chain.redeemErr = errors.New("execution reverted")
		client := NewClient(chain)

		maxRedeemed, err := amount.FromString("1", amount.GyroDecimals)
		require.NoError(t, err)

		outputs := []TokenAmount{{Token: tokenA, Amount: big.NewInt(500)}}
		result, err := client.Redeem(context.Background(), outputs, maxRedeemed, false)
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Len(t, result.Approvals, 1)
		assert.Nil(t, result.Main)
	})
}
