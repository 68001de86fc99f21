package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/chain"
	infsol "tokenforge/internal/infra/solana"
)

// WalletHandler mounts the wallet surface:
//
//	GET  /api/wallet/balance?address=...&network=...
//	POST /api/wallet/create
type WalletHandler struct {
	IssuanceUC *usecase.IssuanceUsecase

	// Secrets is optional; nil disables /create.
	Secrets *infsol.WalletSecretStore
}

func (h *WalletHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/balance"):
		h.balance(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/create"):
		h.create(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *WalletHandler) balance(w http.ResponseWriter, r *http.Request) {
	if h.IssuanceUC == nil {
		writeError(w, http.StatusInternalServerError, "issuance usecase is not initialized")
		return
	}

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "address query parameter is required")
		return
	}

	net, err := chain.ParseNetwork(r.URL.Query().Get("network"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown network")
		return
	}

	bal, err := h.IssuanceUC.CheckBalance(r.Context(), net, address)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to query balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"address":  address,
		"network":  net,
		"balance":  bal.SOL,
		"lamports": bal.Lamports,
	})
}

type createWalletRequest struct {
	Label string `json:"label"`
}

func (h *WalletHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.Secrets == nil {
		writeError(w, http.StatusServiceUnavailable, "wallet secret storage is not configured")
		return
	}

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	address, version, err := h.Secrets.CreateWallet(r.Context(), req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create wallet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"publicKey":     address,
		"secretVersion": version,
	})
}
