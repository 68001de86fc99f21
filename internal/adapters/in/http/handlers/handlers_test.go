package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

// ------------------------------------------------------------
// Port fakes backing a real IssuanceUsecase
// ------------------------------------------------------------

type stubBalances struct {
	lamports uint64
	err      error
}

func (s *stubBalances) Balance(ctx context.Context, net chain.Network, address string) (chain.Balance, error) {
	if s.err != nil {
		return chain.Balance{}, s.err
	}
	return chain.NewBalance(s.lamports), nil
}

type stubRents struct{}

func (stubRents) MintRent(ctx context.Context, net chain.Network) (uint64, error) {
	return 1_461_600, nil
}

type stubPlan struct{}

func (stubPlan) MintAddress() string              { return "mint111" }
func (stubPlan) AssociatedAccountAddress() string { return "ata111" }

type stubAssembler struct{}

func (stubAssembler) Assemble(in usecase.AssembleInput) (usecase.IssuancePlan, error) {
	return stubPlan{}, nil
}

type stubSubmitter struct{ err error }

func (s *stubSubmitter) Submit(ctx context.Context, net chain.Network, plan usecase.IssuancePlan, signer issuance.TransactionSigner) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "sig111", nil
}

type stubSigner struct{}

func (stubSigner) Address() string { return "payer111" }
func (stubSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return []byte("sig"), nil
}

func newTestUC(balances *stubBalances, sub *stubSubmitter) *usecase.IssuanceUsecase {
	return usecase.NewIssuanceUsecase(balances, stubRents{}, stubAssembler{}, sub, 0.01)
}

func createBody() string {
	return `{
		"name": "Test", "symbol": "TST", "description": "a token",
		"supply": "1000", "decimals": "2",
		"viralFeatures": ["Gaming utility"], "network": "devnet"
	}`
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// ------------------------------------------------------------
// NetworkHandler
// ------------------------------------------------------------

func TestNetworkHandler(t *testing.T) {
	h := &NetworkHandler{}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/networks", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	nets := body["networks"].([]any)
	require.Len(t, nets, 2)
	first := nets[0].(map[string]any)
	assert.Equal(t, "devnet", first["id"])
	assert.Contains(t, first["cost"], "FREE")
}

func TestNetworkHandlerMethodNotAllowed(t *testing.T) {
	h := &NetworkHandler{}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/networks", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// ------------------------------------------------------------
// TokenHandler
// ------------------------------------------------------------

func TestTokenCatalog(t *testing.T) {
	h := &TokenHandler{}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/token/catalog", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Len(t, body["themes"].([]any), 6)
	assert.Len(t, body["viralFeatures"].([]any), 8)
}

func TestTokenCreateHappyPath(t *testing.T) {
	h := &TokenHandler{
		IssuanceUC: newTestUC(&stubBalances{lamports: chain.LamportsPerSOL}, &stubSubmitter{}),
		Signer:     stubSigner{},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/token/create", strings.NewReader(createBody()))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "mint111", body["mintAddress"])
	assert.Equal(t, "sig111", body["signature"])
	assert.Equal(t, "ata111", body["associatedAccount"])
	assert.Equal(t, "https://explorer.solana.com/address/mint111?cluster=devnet", body["explorerUrl"])
}

func TestTokenCreateWithoutFeePayer(t *testing.T) {
	h := &TokenHandler{
		IssuanceUC: newTestUC(&stubBalances{lamports: chain.LamportsPerSOL}, &stubSubmitter{}),
		Signer:     nil,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/token/create", strings.NewReader(createBody()))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestTokenCreateInvalidJSON(t *testing.T) {
	h := &TokenHandler{
		IssuanceUC: newTestUC(&stubBalances{lamports: chain.LamportsPerSOL}, &stubSubmitter{}),
		Signer:     stubSigner{},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/token/create", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTokenCreateValidationFailure(t *testing.T) {
	h := &TokenHandler{
		IssuanceUC: newTestUC(&stubBalances{lamports: chain.LamportsPerSOL}, &stubSubmitter{}),
		Signer:     stubSigner{},
	}

	body := `{"name": "", "symbol": "TST", "description": "d", "supply": "1000", "decimals": "2", "viralFeatures": ["Gaming utility"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/token/create", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["success"])
}

func TestTokenCreateErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		submitErr  error
		balanceErr error
		lamports   uint64
		wantStatus int
	}{
		{"insufficient balance", nil, nil, 1_000, http.StatusBadRequest},
		{"balance query down", nil, fmt.Errorf("%w: rpc", issuance.ErrBalanceQuery), 0, http.StatusBadGateway},
		{"submission failed", fmt.Errorf("%w: node", issuance.ErrSubmission), nil, chain.LamportsPerSOL, http.StatusBadGateway},
		{"confirmation timeout", fmt.Errorf("%w: tx", issuance.ErrConfirmationTimeout), nil, chain.LamportsPerSOL, http.StatusGatewayTimeout},
		{"user rejected", issuance.ErrUserRejected, nil, chain.LamportsPerSOL, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &TokenHandler{
				IssuanceUC: newTestUC(
					&stubBalances{lamports: tc.lamports, err: tc.balanceErr},
					&stubSubmitter{err: tc.submitErr},
				),
				Signer: stubSigner{},
			}

			req := httptest.NewRequest(http.MethodPost, "/api/token/create", strings.NewReader(createBody()))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, false, decodeBody(t, rr)["success"])
		})
	}
}

func TestTokenRecentWithoutRecords(t *testing.T) {
	h := &TokenHandler{}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/token/recent", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// ------------------------------------------------------------
// WalletHandler
// ------------------------------------------------------------

func TestWalletBalance(t *testing.T) {
	h := &WalletHandler{
		IssuanceUC: newTestUC(&stubBalances{lamports: 2_500_000_000}, &stubSubmitter{}),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance?address=payer111&network=devnet", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 2.5, body["balance"].(float64), 1e-9)
	assert.Equal(t, float64(2_500_000_000), body["lamports"])
}

func TestWalletBalanceRequiresAddress(t *testing.T) {
	h := &WalletHandler{
		IssuanceUC: newTestUC(&stubBalances{}, &stubSubmitter{}),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance?network=devnet", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWalletBalanceUnknownNetwork(t *testing.T) {
	h := &WalletHandler{
		IssuanceUC: newTestUC(&stubBalances{}, &stubSubmitter{}),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance?address=payer111&network=testnet", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWalletCreateWithoutSecretStore(t *testing.T) {
	h := &WalletHandler{
		IssuanceUC: newTestUC(&stubBalances{}, &stubSubmitter{}),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/create", strings.NewReader(`{"label":"x"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestWalletUnknownRoute(t *testing.T) {
	h := &WalletHandler{
		IssuanceUC: newTestUC(&stubBalances{}, &stubSubmitter{}),
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/wallet/balance", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
