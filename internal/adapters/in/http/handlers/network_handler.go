package handlers

import (
	"net/http"

	"tokenforge/internal/domain/chain"
)

type networkInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Endpoint string `json:"endpoint"`
	Cost     string `json:"cost"`
}

// NetworkHandler serves GET /api/networks: the selectable clusters with
// their fee messaging. The instruction logic is identical on both; only
// the endpoint and the cost copy differ.
type NetworkHandler struct{}

func (h *NetworkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"networks": []networkInfo{
			{
				ID:       string(chain.NetworkDevnet),
				Label:    "Devnet (Testing)",
				Endpoint: chain.DevnetEndpoint,
				Cost:     "FREE (uses devnet SOL)",
			},
			{
				ID:       string(chain.NetworkMainnet),
				Label:    "Mainnet (Production)",
				Endpoint: chain.MainnetEndpoint,
				Cost:     "~0.01 SOL",
			},
		},
	})
}
