package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tokenforge/internal/domain/chain"
)

// Config holds the env-resolved settings for the whole application,
// normalized once at startup. Values only — no external clients.
type Config struct {
	Port string

	// DefaultNetwork is the cluster the wizard and API start on.
	DefaultNetwork chain.Network

	// RPC endpoint overrides per cluster (paid RPC etc.); empty means the
	// public cluster endpoint.
	DevnetRPC  string
	MainnetRPC string

	// MinDeploySOL gates the Deploy step. Heuristic, kept configurable.
	MinDeploySOL float64

	// FeePayerSecret is the Secret Manager version path of the API-mode
	// fee payer keypair. Empty disables the server-side deploy endpoint.
	FeePayerSecret string
	// FeePayerKeypairFile is the local keypair alternative (wizard/dev).
	FeePayerKeypairFile string

	// Firestore issuance records (optional; empty project disables).
	FirestoreProjectID   string
	FirestoreCredentials string
	IssuancesCollection  string

	// Wallet secret storage for POST /api/wallet/create.
	GCPProject         string
	WalletSecretPrefix string

	// SendGrid success notification (optional; empty key disables).
	SendGridAPIKey string
	SendGridFrom   string
	NotifyEmail    string

	// AllowedOrigin for CORS; "*" during development.
	AllowedOrigin string
}

// Load reads .env (best effort) and the environment, applying defaults.
func Load() *Config {
	_ = godotenv.Load()

	net, err := chain.ParseNetwork(os.Getenv("TOKENFORGE_NETWORK"))
	if err != nil {
		net = chain.NetworkDevnet
	}

	return &Config{
		Port:           getenvDefault("PORT", "8080"),
		DefaultNetwork: net,

		DevnetRPC:  getenvTrim("SOLANA_DEVNET_RPC_URL"),
		MainnetRPC: getenvTrim("SOLANA_MAINNET_RPC_URL"),

		MinDeploySOL: getenvFloat("TOKENFORGE_MIN_DEPLOY_SOL", chain.DefaultMinDeployBalanceSOL),

		FeePayerSecret:      getenvTrim("TOKENFORGE_FEE_PAYER_SECRET"),
		FeePayerKeypairFile: getenvTrim("TOKENFORGE_FEE_PAYER_KEYPAIR"),

		FirestoreProjectID:   getenvTrim("FIRESTORE_PROJECT_ID"),
		FirestoreCredentials: getenvTrim("FIRESTORE_CREDENTIALS_FILE"),
		IssuancesCollection:  getenvDefault("ISSUANCES_COLLECTION", "issuances"),

		GCPProject:         getenvTrim("GCP_PROJECT"),
		WalletSecretPrefix: getenvDefault("WALLET_SECRET_PREFIX", "tokenforge-wallet"),

		SendGridAPIKey: getenvTrim("SENDGRID_API_KEY"),
		SendGridFrom:   getenvTrim("SENDGRID_FROM"),
		NotifyEmail:    getenvTrim("TOKENFORGE_NOTIFY_EMAIL"),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),
	}
}

// RPCOverrides maps cluster → endpoint override for the client factory.
func (c *Config) RPCOverrides() map[chain.Network]string {
	return map[chain.Network]string{
		chain.NetworkDevnet:  c.DevnetRPC,
		chain.NetworkMainnet: c.MainnetRPC,
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvTrim(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
