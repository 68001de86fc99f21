package solana

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"tokenforge/internal/domain/chain"
)

// ChainRPC is the minimal Solana RPC surface this package needs.
// (Extend later as needed.)
type ChainRPC interface {
	// Balance returns the lamport balance of a base58 address. A missing
	// account is zero balance, not an error.
	Balance(ctx context.Context, address string) (uint64, error)

	// MintRentLamports returns the rent-exemption minimum for a mint-sized
	// account.
	MintRentLamports(ctx context.Context) (uint64, error)

	// LatestBlockhash returns the current network checkpoint used to bound
	// transaction validity.
	LatestBlockhash(ctx context.Context) (string, error)

	// SendTransaction submits a fully signed transaction and returns its
	// signature.
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)

	// SignatureStatus reports the confirmation state of a submitted
	// transaction. found=false means the network does not know it yet.
	SignatureStatus(ctx context.Context, signature string) (status SignatureStatus, found bool, err error)

	// FeeForMessage estimates the fee for a compiled message. ok=false when
	// the node cannot price it (e.g. expired blockhash).
	FeeForMessage(ctx context.Context, msg types.Message) (lamports uint64, ok bool, err error)
}

// SignatureStatus is the commitment state of one submitted transaction.
type SignatureStatus struct {
	Confirmed bool
	Finalized bool
}

// BloctoChain implements ChainRPC on the blocto solana-go-sdk client.
type BloctoChain struct {
	RPC *client.Client
}

var _ ChainRPC = (*BloctoChain)(nil)

func NewBloctoChain(endpoint string) *BloctoChain {
	return &BloctoChain{RPC: client.NewClient(strings.TrimSpace(endpoint))}
}

func (c *BloctoChain) Balance(ctx context.Context, address string) (uint64, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return 0, fmt.Errorf("solana chain: address is empty")
	}
	bal, err := c.RPC.GetBalance(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("GetBalance: %w", err)
	}
	return bal, nil
}

func (c *BloctoChain) MintRentLamports(ctx context.Context) (uint64, error) {
	rent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return 0, fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}
	return rent, nil
}

func (c *BloctoChain) LatestBlockhash(ctx context.Context) (string, error) {
	recent, err := c.RPC.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash: %w", err)
	}
	return recent.Blockhash, nil
}

func (c *BloctoChain) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	sig, err := c.RPC.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("SendTransaction: %w", err)
	}
	return sig, nil
}

func (c *BloctoChain) SignatureStatus(ctx context.Context, signature string) (SignatureStatus, bool, error) {
	st, err := c.RPC.GetSignatureStatus(ctx, signature)
	if err != nil {
		return SignatureStatus{}, false, fmt.Errorf("GetSignatureStatus: %w", err)
	}
	if st == nil || st.ConfirmationStatus == nil {
		return SignatureStatus{}, false, nil
	}
	out := SignatureStatus{
		Confirmed: *st.ConfirmationStatus == rpc.CommitmentConfirmed ||
			*st.ConfirmationStatus == rpc.CommitmentFinalized,
		Finalized: *st.ConfirmationStatus == rpc.CommitmentFinalized,
	}
	return out, true, nil
}

func (c *BloctoChain) FeeForMessage(ctx context.Context, msg types.Message) (uint64, bool, error) {
	fee, err := c.RPC.GetFeeForMessage(ctx, msg)
	if err != nil {
		return 0, false, fmt.Errorf("GetFeeForMessage: %w", err)
	}
	if fee == nil {
		return 0, false, nil
	}
	return *fee, true, nil
}

// ClientFactory hands out one shared RPC client per cluster. Endpoint
// overrides (e.g. a paid RPC) come from config; defaults are the public
// cluster endpoints.
type ClientFactory struct {
	mu        sync.Mutex
	overrides map[chain.Network]string
	clients   map[chain.Network]ChainRPC
}

func NewClientFactory(overrides map[chain.Network]string) *ClientFactory {
	return &ClientFactory{
		overrides: overrides,
		clients:   make(map[chain.Network]ChainRPC),
	}
}

// Register pins a concrete client for a cluster, replacing the lazily
// built default.
func (f *ClientFactory) Register(net chain.Network, rpc ChainRPC) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[net] = rpc
}

// For returns the shared client for a cluster, creating it on first use.
func (f *ClientFactory) For(net chain.Network) ChainRPC {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[net]; ok {
		return c
	}
	endpoint := net.Endpoint()
	if ov := strings.TrimSpace(f.overrides[net]); ov != "" {
		endpoint = ov
	}
	c := NewBloctoChain(endpoint)
	f.clients[net] = c
	return c
}
