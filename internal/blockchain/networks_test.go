package blockchain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentForChain(t *testing.T) {
	t.Run("known chains resolve", func(t *testing.T) {
		for _, chainID := range []int64{0, 42, 1337} {
			d, err := DeploymentForChain(big.NewInt(chainID))
			require.NoError(t, err, "chain id %d", chainID)
			assert.NotZero(t, d.FundToken, "chain id %d", chainID)
			assert.NotZero(t, d.Processor, "chain id %d", chainID)
			assert.NotEqual(t, d.FundToken, d.Processor, "chain id %d", chainID)
		}
	})

	t.Run("unknown chain fails with typed error", func(t *testing.T) {
		_, err := DeploymentForChain(big.NewInt(424242))
		require.Error(t, err)

		var unsupported *UnsupportedNetworkError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "424242", unsupported.ChainID.String())
		assert.Contains(t, err.Error(), "unsupported network")
	})

	t.Run("nil chain id fails", func(t *testing.T) {
		_, err := DeploymentForChain(nil)
		require.Error(t, err)
	})

	t.Run("non-uint64 chain id fails", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 80)
		_, err := DeploymentForChain(huge)
		require.Error(t, err)
	})
}

func TestGasCeiling(t *testing.T) {
	// The fixed ceiling applied to every mutating call.
	assert.Equal(t, 3_000_000, TxGasLimit)
}
