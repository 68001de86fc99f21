package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
)

// DecodeKeypairJSON restores the 64-byte key from a solana-keygen keypair
// JSON. The canonical form is [u8;64]; the legacy [int,...] form is still
// accepted.
func DecodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil {
		if len(keyBytes) == ed25519.PrivateKeySize {
			return keyBytes, nil
		}
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}

// AccountFromKeypairJSON decodes a keypair JSON payload into an Account.
func AccountFromKeypairJSON(data []byte) (types.Account, error) {
	keyBytes, err := DecodeKeypairJSON(data)
	if err != nil {
		return types.Account{}, err
	}
	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("AccountFromBytes: %w", err)
	}
	return acc, nil
}

// AccountFromKeypairFile loads a solana-keygen keypair file from disk.
func AccountFromKeypairFile(path string) (types.Account, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return types.Account{}, fmt.Errorf("keypair file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file: %w", err)
	}
	return AccountFromKeypairJSON(data)
}

// EncodeKeypairJSON serializes a private key in the [int,...] form used by
// the stored wallet secrets.
func EncodeKeypairJSON(priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected private key length: got %d, want %d", len(priv), ed25519.PrivateKeySize)
	}
	ints := make([]int, len(priv))
	for i, v := range priv {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
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
