package blockchain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Deployment holds the contract addresses of one protocol deployment.
type Deployment struct {
	// FundToken is the ERC-20 governance/fund token minted and redeemed by
	// the protocol.
	FundToken common.Address
	// Processor is the contract that executes mints and redemptions and is
	// the spender of all input-token approvals.
	Processor common.Address
}

// deployments maps chain ids to known deployments. Chain id 0 is the
// zero/test network fallback used by local development chains that report
// no id; 1337 is the conventional local dev chain.
var deployments = map[uint64]Deployment{
	42: {
		FundToken: common.HexToAddress("0x2d37383a45ac17c77e0b0e36c788dbb47f825d43"),
		Processor: common.HexToAddress("0x82f5e258c5c105bc2e3a950ef6a4e7b8d3ceb382"),
	},
	0: {
		FundToken: common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"),
		Processor: common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"),
	},
	1337: {
		FundToken: common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"),
		Processor: common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"),
	},
}

// UnsupportedNetworkError is returned at client construction when the RPC
// endpoint reports a chain id with no known deployment.
type UnsupportedNetworkError struct {
	ChainID *big.Int
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("unsupported network: no deployment for chain id %s", e.ChainID)
}

// DeploymentForChain resolves a chain id to its deployment. Unknown chain
// ids fail loudly instead of silently defaulting.
func DeploymentForChain(chainID *big.Int) (Deployment, error) {
	if chainID != nil && chainID.IsUint64() {
		if d, ok := deployments[chainID.Uint64()]; ok {
			return d, nil
		}
	}
	return Deployment{}, &UnsupportedNetworkError{ChainID: chainID}
}
