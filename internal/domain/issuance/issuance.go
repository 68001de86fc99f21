package issuance

import (
	"context"
	"errors"
	"time"

	"tokenforge/internal/domain/chain"
)

// Result is produced once per confirmed deploy and never mutated. The mint
// address is generated fresh for this issuance and owned solely by it.
type Result struct {
	MintAddress       string        `json:"mintAddress"`
	Signature         string        `json:"signature"`
	AssociatedAccount string        `json:"associatedAccount"`
	ExplorerURL       string        `json:"explorerUrl"`
	Network           chain.Network `json:"network"`
	IssuedAt          time.Time     `json:"issuedAt"`
}

// FailureReport is the user-displayable outcome of a failed deploy. No
// partial Result is ever constructed alongside it.
type FailureReport struct {
	Message string `json:"error"`
}

// Deploy-time failure taxonomy. The orchestrator maps everything below to a
// FailureReport at its boundary; nothing here should ever crash a caller.
var (
	ErrSignerUnavailable   = errors.New("issuance: wallet signer is not available")
	ErrUserRejected        = errors.New("issuance: transaction rejected by the wallet owner")
	ErrSubmission          = errors.New("issuance: transaction submission failed")
	ErrConfirmationTimeout = errors.New("issuance: network did not confirm the transaction in time")
	ErrBalanceQuery        = errors.New("issuance: balance query failed")
	ErrInsufficientBalance = errors.New("issuance: wallet balance below the deploy fee threshold")
)

// TransactionSigner is the external signing capability. It is a capability,
// not a key: the raw private key never crosses this boundary. SignMessage
// may block arbitrarily long on user interaction and may return
// ErrUserRejected.
type TransactionSigner interface {
	// Address is the signer's base58 public key; it pays fees and becomes
	// mint/freeze authority and initial supply owner.
	Address() string

	// SignMessage signs the serialized transaction message.
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// Recorder persists confirmed issuances. Optional collaborator: a recording
// failure is logged and never fails the deploy itself.
type Recorder interface {
	Record(ctx context.Context, res Result) error
}

// Notifier announces confirmed issuances (e.g. mail). Optional collaborator
// under the same policy as Recorder.
type Notifier interface {
	NotifyIssued(ctx context.Context, res Result) error
}
