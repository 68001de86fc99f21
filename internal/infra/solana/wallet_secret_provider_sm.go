package solana

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoadSignerFromSecret restores a fee-payer signer from a Secret Manager
// secret version holding a solana-keygen keypair JSON.
//
// secretName is the full version path, e.g.
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
func LoadSignerFromSecret(ctx context.Context, secretName string) (*LocalWalletSigner, error) {
	secretName = strings.TrimSpace(secretName)
	if secretName == "" {
		return nil, fmt.Errorf("wallet_secret: secret name is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("AccessSecretVersion: %w", err)
	}

	acc, err := AccountFromKeypairJSON(resp.Payload.Data)
	if err != nil {
		return nil, err
	}

	log.Printf("[wallet_secret] loaded fee payer from Secret Manager: secret=%s pubkey=%s",
		secretName, maskShort(acc.PublicKey.ToBase58()))

	return NewLocalWalletSigner(acc), nil
}

// WalletSecretStore issues fresh wallets and keeps their private keys in
// Secret Manager. Only the public address leaves this type.
type WalletSecretStore struct {
	projectID    string
	secretPrefix string
}

// NewWalletSecretStore builds a store. An empty projectID falls back to the
// GCP_PROJECT env at call time.
func NewWalletSecretStore(projectID, secretPrefix string) *WalletSecretStore {
	prefix := strings.TrimSpace(secretPrefix)
	if prefix == "" {
		prefix = "tokenforge-wallet"
	}
	return &WalletSecretStore{
		projectID:    strings.TrimSpace(projectID),
		secretPrefix: prefix,
	}
}

func (s *WalletSecretStore) resolveProjectID() (string, error) {
	if s.projectID != "" {
		return s.projectID, nil
	}
	if v := strings.TrimSpace(os.Getenv("GCP_PROJECT")); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("WalletSecretStore: projectID is empty and GCP_PROJECT env is not set")
}

// CreateWallet generates a new keypair, stores the private key as a secret
// version and returns the base58 address plus the stored version name.
func (s *WalletSecretStore) CreateWallet(ctx context.Context, label string) (address, secretVersion string, err error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", "", fmt.Errorf("CreateWallet: label is empty")
	}

	projectID, err := s.resolveProjectID()
	if err != nil {
		return "", "", err
	}

	acc := types.NewAccount()

	payload, err := EncodeKeypairJSON(acc.PrivateKey)
	if err != nil {
		return "", "", fmt.Errorf("CreateWallet: marshal private key: %w", err)
	}

	secretID := fmt.Sprintf("%s-%s", s.secretPrefix, label)

	smClient, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("CreateWallet: secretmanager.NewClient: %w", err)
	}
	defer smClient.Close()

	parent := fmt.Sprintf("projects/%s", projectID)
	secretName := fmt.Sprintf("projects/%s/secrets/%s", projectID, secretID)

	_, err = smClient.GetSecret(ctx, &secretspb.GetSecretRequest{Name: secretName})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			_, cerr := smClient.CreateSecret(ctx, &secretspb.CreateSecretRequest{
				Parent:   parent,
				SecretId: secretID,
				Secret: &secretspb.Secret{
					Replication: &secretspb.Replication{
						Replication: &secretspb.Replication_Automatic_{
							Automatic: &secretspb.Replication_Automatic{},
						},
					},
				},
			})
			if cerr != nil {
				return "", "", fmt.Errorf("CreateWallet: CreateSecret %s: %w", secretID, cerr)
			}
		} else {
			return "", "", fmt.Errorf("CreateWallet: GetSecret %s: %w", secretID, err)
		}
	}

	addRes, err := smClient.AddSecretVersion(ctx, &secretspb.AddSecretVersionRequest{
		Parent: secretName,
		Payload: &secretspb.SecretPayload{
			Data: payload,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("CreateWallet: AddSecretVersion: %w", err)
	}

	log.Printf("[wallet_secret] created wallet label=%s pubkey=%s",
		label, maskShort(acc.PublicKey.ToBase58()))

	return acc.PublicKey.ToBase58(), addRes.Name, nil
}
