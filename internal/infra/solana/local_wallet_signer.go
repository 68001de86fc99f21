package solana

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"

	"tokenforge/internal/domain/issuance"
)

var ErrSignerKeyMissing = errors.New("local_wallet_signer: keypair is missing")

// LocalWalletSigner implements the external signer capability with a
// keypair held in this process (wizard and API modes). The key never
// leaves the signer; callers only see signatures.
type LocalWalletSigner struct {
	account types.Account
}

var _ issuance.TransactionSigner = (*LocalWalletSigner)(nil)

func NewLocalWalletSigner(account types.Account) *LocalWalletSigner {
	return &LocalWalletSigner{account: account}
}

// NewLocalWalletSignerFromFile loads a solana-keygen keypair file.
func NewLocalWalletSignerFromFile(path string) (*LocalWalletSigner, error) {
	acc, err := AccountFromKeypairFile(path)
	if err != nil {
		return nil, fmt.Errorf("local_wallet_signer: %w", err)
	}
	return NewLocalWalletSigner(acc), nil
}

func (s *LocalWalletSigner) Address() string {
	if s == nil {
		return ""
	}
	return s.account.PublicKey.ToBase58()
}

func (s *LocalWalletSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if s == nil || len(s.account.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %v", issuance.ErrSignerUnavailable, ErrSignerKeyMissing)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ed25519.Sign(s.account.PrivateKey, message), nil
}
