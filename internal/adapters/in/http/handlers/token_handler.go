package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	fsrepo "tokenforge/internal/adapters/out/firestore"
	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// TokenHandler mounts the issuance surface:
//
//	GET  /api/token/catalog  — themes and viral-feature tags for the form
//	POST /api/token/create   — deploy one token with the server fee payer
//	GET  /api/token/recent   — recorded issuances, newest first
type TokenHandler struct {
	IssuanceUC *usecase.IssuanceUsecase

	// Signer is the server-side fee payer. Nil disables /create (the
	// deployment then only works through the wizard with a local wallet).
	Signer issuance.TransactionSigner

	// Records is optional; nil disables /recent.
	Records *fsrepo.IssuanceRepositoryFS
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/catalog"):
		h.catalog(w)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/create"):
		h.create(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/recent"):
		h.recent(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *TokenHandler) catalog(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"themes":        tokendom.Themes(),
		"viralFeatures": tokendom.ViralFeatureCatalog(),
	})
}

func (h *TokenHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.IssuanceUC == nil {
		writeError(w, http.StatusInternalServerError, "issuance usecase is not initialized")
		return
	}
	if h.Signer == nil {
		writeError(w, http.StatusServiceUnavailable, "no server-side fee payer is configured")
		return
	}

	var draft tokendom.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.IssuanceUC.Deploy(r.Context(), draft, h.Signer)
	if err != nil {
		writeDeployErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"mintAddress":       res.MintAddress,
		"signature":         res.Signature,
		"associatedAccount": res.AssociatedAccount,
		"explorerUrl":       res.ExplorerURL,
		"network":           res.Network,
		"issuedAt":          res.IssuedAt,
	})
}

func (h *TokenHandler) recent(w http.ResponseWriter, r *http.Request) {
	if h.Records == nil {
		writeError(w, http.StatusServiceUnavailable, "issuance records are not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	list, err := h.Records.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load issuances")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"issuances": list,
	})
}

// writeDeployErr maps the issuance error taxonomy onto HTTP statuses. The
// body always carries the same user-displayable report as the wizard.
func writeDeployErr(w http.ResponseWriter, err error) {
	report := usecase.FailureReportFrom(err)

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, issuance.ErrSignerUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrDeployInFlight):
		status = http.StatusConflict
	case errors.Is(err, issuance.ErrConfirmationTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, issuance.ErrBalanceQuery),
		errors.Is(err, issuance.ErrSubmission):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   report.Message,
	})
}
