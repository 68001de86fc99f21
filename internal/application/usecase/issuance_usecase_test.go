package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// ------------------------------------------------------------
// Port fakes
// ------------------------------------------------------------

type fakeBalances struct {
	lamports uint64
	err      error
}

func (f *fakeBalances) Balance(ctx context.Context, net chain.Network, address string) (chain.Balance, error) {
	if f.err != nil {
		return chain.Balance{}, f.err
	}
	return chain.NewBalance(f.lamports), nil
}

type fakeRents struct{ err error }

func (f *fakeRents) MintRent(ctx context.Context, net chain.Network) (uint64, error) {
	return 1_461_600, f.err
}

type fakePlan struct{ mint, ata string }

func (p *fakePlan) MintAddress() string              { return p.mint }
func (p *fakePlan) AssociatedAccountAddress() string { return p.ata }

type fakeAssembler struct {
	calls int
	err   error
	last  AssembleInput
}

func (f *fakeAssembler) Assemble(in AssembleInput) (IssuancePlan, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	// A fresh identity per call, like the real assembler.
	return &fakePlan{
		mint: fmt.Sprintf("mint-%d", f.calls),
		ata:  fmt.Sprintf("ata-%d", f.calls),
	}, nil
}

type fakeSubmitter struct {
	sig     string
	err     error
	calls   int
	entered chan struct{} // optional: signals Submit started
	release chan struct{} // optional: blocks Submit until closed
}

func (f *fakeSubmitter) Submit(ctx context.Context, net chain.Network, plan IssuancePlan, signer issuance.TransactionSigner) (string, error) {
	f.calls++
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.sig, f.err
}

type fakeSigner struct{ addr string }

func (s *fakeSigner) Address() string { return s.addr }
func (s *fakeSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return []byte("sig"), nil
}

type fakeRecorder struct {
	recorded []issuance.Result
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, res issuance.Result) error {
	f.recorded = append(f.recorded, res)
	return f.err
}

// ------------------------------------------------------------

func testDraft() tokendom.Draft {
	return tokendom.Draft{
		Name:          "Test",
		Symbol:        "TST",
		Description:   "a token",
		Supply:        "1000",
		Decimals:      "2",
		ViralFeatures: []string{"Gaming utility"},
		Network:       "devnet",
	}
}

func newTestUsecase() (*IssuanceUsecase, *fakeBalances, *fakeAssembler, *fakeSubmitter) {
	balances := &fakeBalances{lamports: chain.LamportsPerSOL} // 1 SOL
	assembler := &fakeAssembler{}
	submitter := &fakeSubmitter{sig: "txsig"}
	uc := NewIssuanceUsecase(balances, &fakeRents{}, assembler, submitter, 0.01)
	return uc, balances, assembler, submitter
}

func TestDeployHappyPath(t *testing.T) {
	uc, _, assembler, submitter := newTestUsecase()
	rec := &fakeRecorder{}
	uc.WithRecorder(rec)

	res, err := uc.Deploy(context.Background(), testDraft(), &fakeSigner{addr: "payer111"})
	require.NoError(t, err)

	assert.Equal(t, "mint-1", res.MintAddress)
	assert.Equal(t, "ata-1", res.AssociatedAccount)
	assert.Equal(t, "txsig", res.Signature)
	assert.Equal(t, chain.NetworkDevnet, res.Network)
	assert.Equal(t,
		"https://explorer.solana.com/address/mint-1?cluster=devnet",
		res.ExplorerURL)
	assert.False(t, res.IssuedAt.IsZero())

	assert.Equal(t, 1, submitter.calls)
	assert.Equal(t, "payer111", assembler.last.Payer)
	assert.Equal(t, "100000", assembler.last.RawSupply.String(), "1000 tokens at 2 decimals")
	assert.Equal(t, uint64(1_461_600), assembler.last.MintRentLamports)

	require.Len(t, rec.recorded, 1)
	assert.Equal(t, "mint-1", rec.recorded[0].MintAddress)
}

func TestDeployValidatesTheDraftFirst(t *testing.T) {
	uc, _, assembler, submitter := newTestUsecase()

	d := testDraft()
	d.Name = ""
	_, err := uc.Deploy(context.Background(), d, &fakeSigner{addr: "payer111"})

	assert.ErrorIs(t, err, tokendom.ErrInvalidName)
	assert.Zero(t, assembler.calls)
	assert.Zero(t, submitter.calls)
}

func TestDeployRejectsOverflowingSupply(t *testing.T) {
	uc, _, _, submitter := newTestUsecase()

	d := testDraft()
	d.Supply = "1000000000000000000" // 10^18 tokens
	d.Decimals = "9"                 // raw 10^27
	_, err := uc.Deploy(context.Background(), d, &fakeSigner{addr: "payer111"})

	assert.ErrorIs(t, err, tokendom.ErrSupplyOverflow)
	assert.Zero(t, submitter.calls)
}

func TestDeployRequiresASigner(t *testing.T) {
	uc, _, _, _ := newTestUsecase()

	_, err := uc.Deploy(context.Background(), testDraft(), nil)
	assert.ErrorIs(t, err, issuance.ErrSignerUnavailable)

	_, err = uc.Deploy(context.Background(), testDraft(), &fakeSigner{addr: "  "})
	assert.ErrorIs(t, err, issuance.ErrSignerUnavailable)
}

func TestDeployGatesOnBalance(t *testing.T) {
	uc, balances, _, submitter := newTestUsecase()
	balances.lamports = 1_000 // far below 0.01 SOL

	_, err := uc.Deploy(context.Background(), testDraft(), &fakeSigner{addr: "payer111"})
	assert.ErrorIs(t, err, issuance.ErrInsufficientBalance)
	assert.Zero(t, submitter.calls)
}

func TestDeploySurfacesBalanceQueryFailure(t *testing.T) {
	uc, balances, _, _ := newTestUsecase()
	balances.err = fmt.Errorf("%w: rpc down", issuance.ErrBalanceQuery)

	_, err := uc.Deploy(context.Background(), testDraft(), &fakeSigner{addr: "payer111"})
	assert.ErrorIs(t, err, issuance.ErrBalanceQuery)
}

func TestRetryUsesAFreshMint(t *testing.T) {
	uc, _, assembler, submitter := newTestUsecase()
	signer := &fakeSigner{addr: "payer111"}

	// First attempt fails at submission; the original scenario: Test/TST,
	// supply 1000, 2 decimals.
	submitter.err = fmt.Errorf("%w: node unavailable", issuance.ErrSubmission)
	_, err := uc.Deploy(context.Background(), testDraft(), signer)
	require.ErrorIs(t, err, issuance.ErrSubmission)

	// Second attempt succeeds — and runs on a brand-new mint identity.
	submitter.err = nil
	res, err := uc.Deploy(context.Background(), testDraft(), signer)
	require.NoError(t, err)

	assert.Equal(t, 2, assembler.calls)
	assert.Equal(t, "mint-2", res.MintAddress, "the failed attempt's mint is discarded")
}

func TestDeployInFlightGuard(t *testing.T) {
	uc, _, _, submitter := newTestUsecase()
	submitter.entered = make(chan struct{}, 2)
	submitter.release = make(chan struct{})
	signer := &fakeSigner{addr: "payer111"}

	done := make(chan error, 1)
	go func() {
		_, err := uc.Deploy(context.Background(), testDraft(), signer)
		done <- err
	}()

	<-submitter.entered // first deploy is now blocked inside Submit

	_, err := uc.Deploy(context.Background(), testDraft(), signer)
	assert.ErrorIs(t, err, ErrDeployInFlight)

	close(submitter.release)
	require.NoError(t, <-done)

	// Once the first attempt finishes, the guard releases.
	_, err = uc.Deploy(context.Background(), testDraft(), signer)
	assert.NoError(t, err)
}

func TestRecorderFailureDoesNotFailTheDeploy(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	uc.WithRecorder(&fakeRecorder{err: errors.New("firestore down")})

	res, err := uc.Deploy(context.Background(), testDraft(), &fakeSigner{addr: "payer111"})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestFailureReportFrom(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"signer unavailable", issuance.ErrSignerUnavailable, "Please connect your wallet first"},
		{"user rejected", fmt.Errorf("wrap: %w", issuance.ErrUserRejected), "Transaction was rejected in the wallet"},
		{"insufficient balance", fmt.Errorf("%w: have 0.001", issuance.ErrInsufficientBalance), "Insufficient SOL balance. You need at least 0.01 SOL for transaction fees."},
		{"confirmation timeout", issuance.ErrConfirmationTimeout, "The network did not confirm the transaction in time. Check the explorer before retrying."},
		{"balance query", issuance.ErrBalanceQuery, "Could not query the wallet balance. Try again."},
		{"in flight", ErrDeployInFlight, "A deploy is already in progress"},
		{"generic", errors.New("boom"), "Token creation failed: boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FailureReportFrom(tc.err).Message)
		})
	}

	assert.Empty(t, FailureReportFrom(nil).Message)
}

func TestCheckBalance(t *testing.T) {
	uc, balances, _, _ := newTestUsecase()
	balances.lamports = 2 * chain.LamportsPerSOL

	bal, err := uc.CheckBalance(context.Background(), chain.NetworkDevnet, "payer111")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bal.SOL, 1e-12)
}
