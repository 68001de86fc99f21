package solana

import (
	"context"
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

func TestKeypairJSONRoundTrip(t *testing.T) {
	acc := types.NewAccount()

	data, err := EncodeKeypairJSON(acc.PrivateKey)
	require.NoError(t, err)

	restored, err := AccountFromKeypairJSON(data)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, restored.PublicKey)
}

func TestDecodeKeypairJSONRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"wrong length", "[1,2,3]"},
		{"byte out of range", "[300" + repeatBytes(63) + "]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeKeypairJSON([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func repeatBytes(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ",1"
	}
	return out
}

func TestLocalWalletSignerFromFile(t *testing.T) {
	acc := types.NewAccount()
	data, err := EncodeKeypairJSON(acc.PrivateKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	signer, err := NewLocalWalletSignerFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey.ToBase58(), signer.Address())

	msg := []byte("payload")
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(acc.PublicKey.Bytes()), msg, sig))
}

func TestLocalWalletSignerWithoutKey(t *testing.T) {
	signer := NewLocalWalletSigner(types.Account{})
	_, err := signer.SignMessage(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, issuance.ErrSignerUnavailable)
}

func TestBalanceCheckerWrapsRPCErrors(t *testing.T) {
	factory := NewClientFactory(nil)
	factory.Register(chain.NetworkDevnet, &fakeChain{})
	checker := NewBalanceChecker(factory)

	_, err := checker.Balance(context.Background(), chain.NetworkDevnet, "   ")
	assert.ErrorIs(t, err, issuance.ErrBalanceQuery)

	bal, err := checker.Balance(context.Background(), chain.NetworkDevnet, "addr111")
	require.NoError(t, err)
	assert.Zero(t, bal.Lamports, "an absent account is zero balance, not an error")
}
