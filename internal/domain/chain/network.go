package chain

import (
	"errors"
	"fmt"
	"strings"
)

// Network selects the Solana cluster a deploy targets. It changes the RPC
// endpoint and the fee/cost messaging only; instruction logic is identical
// on every cluster.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
)

const (
	DevnetEndpoint  = "https://api.devnet.solana.com"
	MainnetEndpoint = "https://api.mainnet-beta.solana.com"

	explorerHost = "https://explorer.solana.com"
)

// LamportsPerSOL is the fixed divisor between SOL and its indivisible unit.
const LamportsPerSOL = 1_000_000_000

// DefaultMinDeployBalanceSOL gates the Deploy step. Heuristic carried over
// from the original fee messaging; override via TOKENFORGE_MIN_DEPLOY_SOL.
const DefaultMinDeployBalanceSOL = 0.01

var ErrUnknownNetwork = errors.New("chain: unknown network")

// ParseNetwork normalizes a user/API supplied cluster name.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(NetworkDevnet):
		return NetworkDevnet, nil
	case string(NetworkMainnet), "mainnet-beta":
		return NetworkMainnet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
}

func (n Network) String() string { return string(n) }

// Endpoint returns the public RPC endpoint for the cluster.
func (n Network) Endpoint() string {
	if n == NetworkMainnet {
		return MainnetEndpoint
	}
	return DevnetEndpoint
}

// ExplorerURL builds the explorer deep link for an address. The cluster
// query parameter is present on devnet and omitted on mainnet.
func (n Network) ExplorerURL(address string) string {
	u := fmt.Sprintf("%s/address/%s", explorerHost, strings.TrimSpace(address))
	if n == NetworkDevnet {
		u += "?cluster=devnet"
	}
	return u
}

// SOL converts lamports into the native display unit.
func SOL(lamports uint64) float64 {
	return float64(lamports) / float64(LamportsPerSOL)
}

// Balance is a spendable-balance snapshot for one (address, network) pair.
// Stale snapshots must never feed the deploy-eligibility gate; re-query on
// every identity or network change.
type Balance struct {
	Lamports uint64
	SOL      float64
}

func NewBalance(lamports uint64) Balance {
	return Balance{Lamports: lamports, SOL: SOL(lamports)}
}
