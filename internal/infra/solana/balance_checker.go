package solana

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

var ErrBalanceCheckerNotConfigured = errors.New("balance_checker: not configured")

// BalanceChecker is a pure read over the cluster RPC. Absence of the
// account yields zero balance; only the RPC call itself failing is an
// error (issuance.ErrBalanceQuery).
//
// Callers must re-query whenever the account identity or target network
// changes — a snapshot taken against a different pair must never feed the
// deploy gate.
type BalanceChecker struct {
	Clients *ClientFactory
}

func NewBalanceChecker(clients *ClientFactory) *BalanceChecker {
	return &BalanceChecker{Clients: clients}
}

func (b *BalanceChecker) Balance(ctx context.Context, net chain.Network, address string) (chain.Balance, error) {
	if b == nil || b.Clients == nil {
		return chain.Balance{}, ErrBalanceCheckerNotConfigured
	}
	addr := strings.TrimSpace(address)
	if addr == "" {
		return chain.Balance{}, fmt.Errorf("%w: address is empty", issuance.ErrBalanceQuery)
	}

	lamports, err := b.Clients.For(net).Balance(ctx, addr)
	if err != nil {
		return chain.Balance{}, fmt.Errorf("%w: %v", issuance.ErrBalanceQuery, err)
	}
	return chain.NewBalance(lamports), nil
}
