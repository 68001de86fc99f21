package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenforge/internal/domain/chain"
)

func validDraft() Draft {
	return Draft{
		Name:          "Test Token",
		Symbol:        "tst",
		Description:   "a test token",
		Supply:        "1000",
		Decimals:      "2",
		Theme:         "dog",
		ViralFeatures: []string{"NFT integration"},
		Network:       "devnet",
	}
}

func TestNewValidDraft(t *testing.T) {
	p, err := New(validDraft())
	require.NoError(t, err)

	assert.Equal(t, "Test Token", p.Name)
	assert.Equal(t, "TST", p.Symbol, "symbol is normalized to uppercase")
	assert.Equal(t, uint8(2), p.Decimals)
	assert.Equal(t, ThemeDog, p.Theme)
	assert.Equal(t, chain.NetworkDevnet, p.Network)
	assert.Equal(t, big.NewInt(1000), p.Supply)
}

func TestNewRejectsInvalidDrafts(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{"empty name", func(d *Draft) { d.Name = "   " }, ErrInvalidName},
		{"empty symbol", func(d *Draft) { d.Symbol = "" }, ErrInvalidSymbol},
		{"empty description", func(d *Draft) { d.Description = "" }, ErrInvalidDescription},
		{"zero supply", func(d *Draft) { d.Supply = "0" }, ErrInvalidSupply},
		{"negative supply", func(d *Draft) { d.Supply = "-5" }, ErrInvalidSupply},
		{"non numeric supply", func(d *Draft) { d.Supply = "1e9" }, ErrInvalidSupply},
		{"fractional supply", func(d *Draft) { d.Supply = "10.5" }, ErrInvalidSupply},
		{"decimals too large", func(d *Draft) { d.Decimals = "10" }, ErrInvalidDecimals},
		{"negative decimals", func(d *Draft) { d.Decimals = "-1" }, ErrInvalidDecimals},
		{"non numeric decimals", func(d *Draft) { d.Decimals = "many" }, ErrInvalidDecimals},
		{"unknown theme", func(d *Draft) { d.Theme = "spaceship" }, ErrInvalidTheme},
		{"no viral features", func(d *Draft) { d.ViralFeatures = nil }, ErrInvalidViralFeatures},
		{"unknown viral feature", func(d *Draft) { d.ViralFeatures = []string{"Free money"} }, ErrUnknownViralFeature},
		{"unknown network", func(d *Draft) { d.Network = "testnet9" }, chain.ErrUnknownNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			_, err := New(d)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	d := validDraft()
	d.Theme = ""
	d.Network = ""

	p, err := New(d)
	require.NoError(t, err)
	assert.Equal(t, ThemeCustom, p.Theme, "empty theme falls back to custom")
	assert.Equal(t, chain.NetworkDevnet, p.Network, "empty network falls back to devnet")
}

func TestNewDeduplicatesFeatures(t *testing.T) {
	d := validDraft()
	d.ViralFeatures = []string{"NFT integration", "NFT integration", "Gaming utility"}

	p, err := New(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"NFT integration", "Gaming utility"}, p.ViralFeatures)
}

func TestRawSupplyExactness(t *testing.T) {
	cases := []struct {
		supply   string
		decimals string
		want     string
	}{
		{"1000000000", "9", "1000000000000000000"}, // the wizard defaults
		{"1", "0", "1"},
		{"21000000", "6", "21000000000000"},
		// 10^18 whole tokens at 9 decimals is 10^27 and must stay exact.
		{"1000000000000000000", "9", "1000000000000000000000000000"},
	}

	for _, tc := range cases {
		d := validDraft()
		d.Supply = tc.supply
		d.Decimals = tc.decimals

		p, err := New(d)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.RawSupply().String())
	}
}

func TestRawSupplyU64(t *testing.T) {
	d := validDraft()
	d.Supply = "1000000000"
	d.Decimals = "9"

	p, err := New(d)
	require.NoError(t, err)

	raw, err := p.RawSupplyU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), raw)
}

func TestRawSupplyU64Overflow(t *testing.T) {
	d := validDraft()
	d.Supply = "1000000000000000000" // 10^18 tokens
	d.Decimals = "9"                 // raw 10^27 > u64

	p, err := New(d)
	require.NoError(t, err)

	_, err = p.RawSupplyU64()
	assert.ErrorIs(t, err, ErrSupplyOverflow)
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(" Frog ")
	require.NoError(t, err)
	assert.Equal(t, ThemeFrog, th)

	_, err = ParseTheme("unknown")
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestViralFeatureCatalog(t *testing.T) {
	feats := ViralFeatureCatalog()
	assert.Len(t, feats, 8)
	assert.True(t, IsViralFeature("Meme-powered marketing"))
	assert.False(t, IsViralFeature("meme-powered marketing"), "matching is exact")
}
