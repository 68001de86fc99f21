package httpin

import (
	"net/http"

	"tokenforge/internal/adapters/in/http/handlers"
	fsrepo "tokenforge/internal/adapters/out/firestore"
	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/issuance"
	infsol "tokenforge/internal/infra/solana"
)

// RouterDeps collects everything the API surface needs, injected from main.
// Optional collaborators may be nil; their endpoints answer 503.
type RouterDeps struct {
	IssuanceUC *usecase.IssuanceUsecase

	FeePayer issuance.TransactionSigner
	Records  *fsrepo.IssuanceRepositoryFS
	Secrets  *infsol.WalletSecretStore
}

// NewRouter mounts the API routes onto a fresh mux.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"tokenforge-api"}`))
	})

	mux.Handle("/api/networks", &handlers.NetworkHandler{})

	mux.Handle("/api/token/", &handlers.TokenHandler{
		IssuanceUC: d.IssuanceUC,
		Signer:     d.FeePayer,
		Records:    d.Records,
	})

	mux.Handle("/api/wallet/", &handlers.WalletHandler{
		IssuanceUC: d.IssuanceUC,
		Secrets:    d.Secrets,
	})

	return mux
}
