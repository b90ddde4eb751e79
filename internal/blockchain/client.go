// Package blockchain wraps the on-chain boundary of the protocol: the RPC
// connection, the ERC-20 token contracts and the fund/processor contracts.
// All mutating calls are submitted under the currently selected signer with
// a fixed gas ceiling; read-only calls are retried with exponential backoff.
package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	// TxGasLimit is the fixed gas ceiling applied to every mutating call
	// (approve, mint, redeem).
	TxGasLimit = 3_000_000

	rpcTimeout  = 10 * time.Second
	readRetries = 3
)

// Client talks to one protocol deployment over a single RPC endpoint.
// The signer is the one piece of mutable state: SwitchAccount must not be
// interleaved with an in-flight mint or redeem.
type Client struct {
	eth        *ethclient.Client
	chainID    *big.Int
	deployment Deployment

	erc20ABI abi.ABI
	fundABI  abi.ABI

	fundToken *bind.BoundContract
	processor *bind.BoundContract

	mu      sync.RWMutex
	account common.Address
	signer  bind.SignerFn
}

// NewClient dials the RPC endpoint, resolves the chain id to a deployment
// and binds the signer for the given private key. An empty key yields a
// read-only client: estimation and balance queries work, mint/redeem fail.
func NewClient(ctx context.Context, rpcURL, privateKeyHex string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to query chain id: %w", err)
	}

	deployment, err := DeploymentForChain(chainID)
	if err != nil {
		eth.Close()
		return nil, err
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	fund, err := abi.JSON(strings.NewReader(fundABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to parse fund ABI: %w", err)
	}

	c := &Client{
		eth:        eth,
		chainID:    chainID,
		deployment: deployment,
		erc20ABI:   erc20,
		fundABI:    fund,
		fundToken:  bind.NewBoundContract(deployment.FundToken, erc20, eth, eth, eth),
		processor:  bind.NewBoundContract(deployment.Processor, fund, eth, eth, eth),
	}

	if privateKeyHex != "" {
		if err := c.SwitchAccount(privateKeyHex); err != nil {
			eth.Close()
			return nil, err
		}
	}

	return c, nil
}

// Close closes the RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Ping verifies the RPC endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.eth.BlockNumber(ctx)
	return err
}

// ChainID returns the connected chain id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Deployment returns the resolved contract addresses.
func (c *Client) Deployment() Deployment {
	return c.deployment
}

// FundAddress returns the fund token contract address.
func (c *Client) FundAddress() common.Address {
	return c.deployment.FundToken
}

// ProcessorAddress returns the mint/redeem processor address, the spender
// of all approvals.
func (c *Client) ProcessorAddress() common.Address {
	return c.deployment.Processor
}

// Account returns the address of the currently selected signer, or the zero
// address for a read-only client.
func (c *Client) Account() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// SwitchAccount rebinds all mutating calls to a new signer. Callers must
// serialize this against pending mint/redeem operations: nonce assignment
// happens per account at submission time.
func (c *Client) SwitchAccount(privateKeyHex string) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return fmt.Errorf("failed to create transactor: %w", err)
	}

	c.mu.Lock()
	c.account = opts.From
	c.signer = opts.Signer
	c.mu.Unlock()
	return nil
}

// transactOpts builds per-call transact options carrying the fixed gas
// ceiling. Gas price and nonce are left to the backend.
func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return nil, fmt.Errorf("no signer configured: provide a private key")
	}
	return &bind.TransactOpts{
		From:     c.account,
		Signer:   c.signer,
		GasLimit: TxGasLimit,
		Context:  ctx,
	}, nil
}

// readCall executes a view call with exponential backoff. Only side-effect
// free calls go through here; transaction submissions are never retried.
func readCall[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	return backoff.Retry(rpcCtx, fn,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(readRetries))
}
