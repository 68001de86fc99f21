package solana

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

var (
	ErrSubmitterNotConfigured = errors.New("tx_submitter: not configured")
	ErrSubmitterPlanEmpty     = errors.New("tx_submitter: plan has no instructions")
)

const (
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 2 * time.Second
)

// TransactionSubmitter bundles an assembled plan into one atomic
// transaction, co-signs with the plan's mint keypair, delegates the payer
// signature to the external signer capability, submits and awaits
// "confirmed" commitment.
//
// All four instructions commit atomically on chain; a failure at any step
// leaves no partial on-chain effect. The plan's mint keypair is discarded
// either way — retries assemble a fresh plan.
type TransactionSubmitter struct {
	Clients *ClientFactory

	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

func NewTransactionSubmitter(clients *ClientFactory) *TransactionSubmitter {
	return &TransactionSubmitter{
		Clients:        clients,
		ConfirmTimeout: defaultConfirmTimeout,
		PollInterval:   defaultPollInterval,
	}
}

// Submit performs checkpoint fetch → message build → co-sign → external
// sign → send → confirm. It returns the transaction signature.
func (s *TransactionSubmitter) Submit(
	ctx context.Context,
	net chain.Network,
	plan *IssuancePlan,
	signer issuance.TransactionSigner,
) (string, error) {
	if s == nil || s.Clients == nil {
		return "", ErrSubmitterNotConfigured
	}
	if plan == nil || len(plan.Instructions) == 0 {
		return "", ErrSubmitterPlanEmpty
	}
	if signer == nil {
		return "", issuance.ErrSignerUnavailable
	}

	rpc := s.Clients.For(net)

	// 1) network checkpoint bounds transaction validity (replay window)
	blockhash, err := rpc.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: latest blockhash: %v", issuance.ErrSubmission, err)
	}

	// 2) one atomic message, fee payer = external signer
	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        plan.Payer,
		RecentBlockhash: blockhash,
		Instructions:    plan.Instructions,
	})

	raw, err := msg.Serialize()
	if err != nil {
		return "", fmt.Errorf("%w: serialize message: %v", issuance.ErrSubmission, err)
	}

	// 3+4) collect one signature per required signer, in message account
	// order. The mint co-signs locally (it must authorize its own
	// creation); the payer signature comes from the capability and may
	// block on user interaction or be declined.
	numSigners := int(msg.Header.NumRequireSignatures)
	if numSigners > len(msg.Accounts) {
		return "", fmt.Errorf("%w: malformed message header", issuance.ErrSubmission)
	}

	sigs := make([]types.Signature, 0, numSigners)
	for _, acct := range msg.Accounts[:numSigners] {
		switch acct {
		case plan.Payer:
			sig, serr := signer.SignMessage(ctx, raw)
			if serr != nil {
				if errors.Is(serr, issuance.ErrUserRejected) || errors.Is(serr, issuance.ErrSignerUnavailable) {
					return "", serr
				}
				return "", fmt.Errorf("%w: payer signature: %v", issuance.ErrSubmission, serr)
			}
			sigs = append(sigs, sig)
		case plan.Mint.PublicKey:
			sigs = append(sigs, ed25519.Sign(plan.Mint.PrivateKey, raw))
		default:
			return "", fmt.Errorf("%w: unexpected required signer %s", issuance.ErrSubmission, acct.ToBase58())
		}
	}

	tx := types.Transaction{
		Signatures: sigs,
		Message:    msg,
	}

	// 5) submit + poll until "confirmed"
	signature, err := rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", issuance.ErrSubmission, err)
	}

	log.Printf("[tx_submitter] submitted tx=%s mint=%s network=%s",
		maskShort(signature), maskShort(plan.MintAddress()), net)

	if err := s.awaitConfirmation(ctx, rpc, signature); err != nil {
		return "", err
	}
	return signature, nil
}

func (s *TransactionSubmitter) awaitConfirmation(ctx context.Context, rpc ChainRPC, signature string) error {
	timeout := s.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, found, err := rpc.SignatureStatus(ctx, signature)
		if err == nil && found && status.Confirmed {
			return nil
		}
		// transient status errors are retried until the window closes
		if err != nil {
			log.Printf("[tx_submitter] status poll failed tx=%s: %v", maskShort(signature), err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: tx=%s", issuance.ErrConfirmationTimeout, signature)
		case <-ticker.C:
		}
	}
}

// EstimateDeployFee prices the issuance transaction. When the node cannot
// estimate, the configured heuristic (default 0.01 SOL worth) applies.
func (s *TransactionSubmitter) EstimateDeployFee(ctx context.Context, net chain.Network, plan *IssuancePlan) (chain.Balance, error) {
	if s == nil || s.Clients == nil {
		return chain.Balance{}, ErrSubmitterNotConfigured
	}
	rpc := s.Clients.For(net)

	blockhash, err := rpc.LatestBlockhash(ctx)
	if err != nil {
		return chain.Balance{}, fmt.Errorf("EstimateDeployFee: latest blockhash: %w", err)
	}
	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        plan.Payer,
		RecentBlockhash: blockhash,
		Instructions:    plan.Instructions,
	})
	fee, ok, err := rpc.FeeForMessage(ctx, msg)
	if err != nil || !ok {
		fallback := uint64(chain.DefaultMinDeployBalanceSOL * chain.LamportsPerSOL)
		return chain.NewBalance(fallback), nil
	}
	return chain.NewBalance(fee), nil
}
