package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// ============================================================
// Ports (implemented by internal/infra/solana)
// ============================================================

// BalanceReader is the read-only spendable-balance query.
type BalanceReader interface {
	Balance(ctx context.Context, net chain.Network, address string) (chain.Balance, error)
}

// RentReader fetches the rent-exemption minimum for a mint-sized account.
type RentReader interface {
	MintRent(ctx context.Context, net chain.Network) (uint64, error)
}

// AssembleInput feeds the instruction assembler. The rent value is fetched
// here in the orchestrator so the assembler stays free of network I/O.
type AssembleInput struct {
	Payer            string
	Decimals         uint8
	RawSupply        *big.Int
	MintRentLamports uint64
}

// IssuancePlan is an assembled, not-yet-submitted issuance. Opaque to this
// layer beyond its two addresses; the submitter knows the concrete type.
type IssuancePlan interface {
	MintAddress() string
	AssociatedAccountAddress() string
}

// PlanAssembler produces a plan with a fresh mint identity on every call.
type PlanAssembler interface {
	Assemble(in AssembleInput) (IssuancePlan, error)
}

// PlanSubmitter submits a plan atomically and awaits confirmation.
type PlanSubmitter interface {
	Submit(ctx context.Context, net chain.Network, plan IssuancePlan, signer issuance.TransactionSigner) (signature string, err error)
}

// ErrDeployInFlight guards the single-attempt rule: a new deploy is refused
// while a prior one is still pending.
var ErrDeployInFlight = errors.New("issuance: a deploy attempt is already in flight")

// ============================================================
// IssuanceUsecase
// ============================================================

// IssuanceUsecase drives one deploy end to end: validate parameters,
// gate on a fresh balance, fetch rent, assemble the four-instruction plan
// and submit it. Failures are never retried here; every retry is a fresh
// user-initiated Deploy with a brand-new mint identity.
type IssuanceUsecase struct {
	balances  BalanceReader
	rents     RentReader
	assembler PlanAssembler
	submitter PlanSubmitter

	// optional collaborators; failures are logged, never surfaced
	recorder issuance.Recorder
	notifier issuance.Notifier

	minDeploySOL float64

	deploying atomic.Bool
}

func NewIssuanceUsecase(
	balances BalanceReader,
	rents RentReader,
	assembler PlanAssembler,
	submitter PlanSubmitter,
	minDeploySOL float64,
) *IssuanceUsecase {
	if minDeploySOL <= 0 {
		minDeploySOL = chain.DefaultMinDeployBalanceSOL
	}
	return &IssuanceUsecase{
		balances:     balances,
		rents:        rents,
		assembler:    assembler,
		submitter:    submitter,
		minDeploySOL: minDeploySOL,
	}
}

// WithRecorder wires the optional issuance record store.
func (u *IssuanceUsecase) WithRecorder(r issuance.Recorder) *IssuanceUsecase {
	u.recorder = r
	return u
}

// WithNotifier wires the optional success notifier.
func (u *IssuanceUsecase) WithNotifier(n issuance.Notifier) *IssuanceUsecase {
	u.notifier = n
	return u
}

// MinDeployBalanceSOL is the configured deploy-eligibility threshold.
func (u *IssuanceUsecase) MinDeployBalanceSOL() float64 { return u.minDeploySOL }

// CheckBalance re-queries the signer's spendable balance. Callers must do
// this whenever the account identity or target network changes.
func (u *IssuanceUsecase) CheckBalance(ctx context.Context, net chain.Network, address string) (chain.Balance, error) {
	if u == nil || u.balances == nil {
		return chain.Balance{}, errors.New("issuance usecase is not initialized")
	}
	return u.balances.Balance(ctx, net, address)
}

// Deploy validates, gates, assembles and submits one issuance. On success
// the returned Result is complete and immutable; on failure no partial
// result exists and the generated mint identity has been discarded.
func (u *IssuanceUsecase) Deploy(ctx context.Context, d tokendom.Draft, signer issuance.TransactionSigner) (*issuance.Result, error) {
	if u == nil || u.assembler == nil || u.submitter == nil {
		return nil, errors.New("issuance usecase is not initialized")
	}
	if signer == nil || strings.TrimSpace(signer.Address()) == "" {
		return nil, issuance.ErrSignerUnavailable
	}

	if !u.deploying.CompareAndSwap(false, true) {
		return nil, ErrDeployInFlight
	}
	defer u.deploying.Store(false)

	params, err := tokendom.New(d)
	if err != nil {
		return nil, err
	}

	// The raw amount must fit the on-chain u64 supply field; reject before
	// touching the network.
	if _, err := params.RawSupplyU64(); err != nil {
		return nil, err
	}

	payer := signer.Address()

	// Deploy-eligibility gate on a balance queried right now, against the
	// same (payer, network) pair this deploy targets.
	bal, err := u.balances.Balance(ctx, params.Network, payer)
	if err != nil {
		return nil, err
	}
	if bal.SOL < u.minDeploySOL {
		return nil, fmt.Errorf("%w: have %.4f SOL, need %.2f SOL", issuance.ErrInsufficientBalance, bal.SOL, u.minDeploySOL)
	}

	rent, err := u.rents.MintRent(ctx, params.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: rent query: %v", issuance.ErrSubmission, err)
	}

	plan, err := u.assembler.Assemble(AssembleInput{
		Payer:            payer,
		Decimals:         params.Decimals,
		RawSupply:        params.RawSupply(),
		MintRentLamports: rent,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[issuance] deploy start symbol=%s network=%s payer=%s mint=%s",
		params.Symbol, params.Network, maskShort(payer), maskShort(plan.MintAddress()))

	sig, err := u.submitter.Submit(ctx, params.Network, plan, signer)
	if err != nil {
		return nil, err
	}

	res := &issuance.Result{
		MintAddress:       plan.MintAddress(),
		Signature:         sig,
		AssociatedAccount: plan.AssociatedAccountAddress(),
		ExplorerURL:       params.Network.ExplorerURL(plan.MintAddress()),
		Network:           params.Network,
		IssuedAt:          time.Now().UTC(),
	}

	log.Printf("[issuance] deploy confirmed symbol=%s mint=%s tx=%s",
		params.Symbol, maskShort(res.MintAddress), maskShort(res.Signature))

	if u.recorder != nil {
		if rerr := u.recorder.Record(ctx, *res); rerr != nil {
			log.Printf("[issuance] WARN: record failed mint=%s: %v", maskShort(res.MintAddress), rerr)
		}
	}
	if u.notifier != nil {
		if nerr := u.notifier.NotifyIssued(ctx, *res); nerr != nil {
			log.Printf("[issuance] WARN: notify failed mint=%s: %v", maskShort(res.MintAddress), nerr)
		}
	}

	return res, nil
}

// FailureReportFrom converts any deploy error into the user-displayable
// report shown by the wizard and the API. Nothing past this boundary
// should crash a caller.
func FailureReportFrom(err error) issuance.FailureReport {
	switch {
	case err == nil:
		return issuance.FailureReport{}
	case errors.Is(err, issuance.ErrSignerUnavailable):
		return issuance.FailureReport{Message: "Please connect your wallet first"}
	case errors.Is(err, issuance.ErrUserRejected):
		return issuance.FailureReport{Message: "Transaction was rejected in the wallet"}
	case errors.Is(err, issuance.ErrInsufficientBalance):
		return issuance.FailureReport{Message: "Insufficient SOL balance. You need at least 0.01 SOL for transaction fees."}
	case errors.Is(err, issuance.ErrConfirmationTimeout):
		return issuance.FailureReport{Message: "The network did not confirm the transaction in time. Check the explorer before retrying."}
	case errors.Is(err, issuance.ErrBalanceQuery):
		return issuance.FailureReport{Message: "Could not query the wallet balance. Try again."}
	case errors.Is(err, ErrDeployInFlight):
		return issuance.FailureReport{Message: "A deploy is already in progress"}
	default:
		return issuance.FailureReport{Message: fmt.Sprintf("Token creation failed: %v", err)}
	}
}

func maskShort(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
