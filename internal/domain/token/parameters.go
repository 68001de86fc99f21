package token

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"tokenforge/internal/domain/chain"
)

// Parameters is the validated, immutable description of the token a user
// wants to issue. Build it from a Draft via New; never mutate it afterwards.
type Parameters struct {
	Name        string
	Symbol      string // normalized to uppercase
	Description string

	// Supply is the initial supply in whole-token units, pre decimal
	// scaling. Kept as big.Int so 10^18+ supplies with 9 decimals stay
	// exact.
	Supply *big.Int

	// Decimals in [0, MaxDecimals].
	Decimals uint8

	Theme         Theme
	ViralFeatures []string

	// Optional social links; format is not validated.
	Website  string
	Twitter  string
	Telegram string
	Discord  string

	Network chain.Network
}

// MaxDecimals is the network-defined upper bound for SPL mint decimals.
const MaxDecimals = 9

// Errors
var (
	ErrInvalidName          = errors.New("token: name is required")
	ErrInvalidSymbol        = errors.New("token: symbol is required")
	ErrInvalidDescription   = errors.New("token: description is required")
	ErrInvalidSupply        = errors.New("token: supply must be a positive integer")
	ErrInvalidDecimals      = errors.New("token: decimals out of range")
	ErrInvalidTheme         = errors.New("token: unknown theme")
	ErrInvalidViralFeatures = errors.New("token: at least one viral feature is required")
	ErrUnknownViralFeature  = errors.New("token: unknown viral feature")
	ErrSupplyOverflow       = errors.New("token: raw supply exceeds the on-chain supply field")
)

// Draft carries raw wizard/API input. Supply and Decimals stay strings here
// because that is what the form collects; New parses and validates.
type Draft struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Supply      string `json:"supply"`
	Decimals    string `json:"decimals"`
	Theme       string `json:"theme"`

	ViralFeatures []string `json:"viralFeatures"`

	Website  string `json:"website"`
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Discord  string `json:"discord"`

	Network string `json:"network"`
}

// New validates a draft and returns immutable Parameters.
func New(d Draft) (Parameters, error) {
	p := Parameters{
		Name:        strings.TrimSpace(d.Name),
		Symbol:      strings.ToUpper(strings.TrimSpace(d.Symbol)),
		Description: strings.TrimSpace(d.Description),
		Website:     strings.TrimSpace(d.Website),
		Twitter:     strings.TrimSpace(d.Twitter),
		Telegram:    strings.TrimSpace(d.Telegram),
		Discord:     strings.TrimSpace(d.Discord),
	}

	if p.Name == "" {
		return Parameters{}, ErrInvalidName
	}
	if p.Symbol == "" {
		return Parameters{}, ErrInvalidSymbol
	}
	if p.Description == "" {
		return Parameters{}, ErrInvalidDescription
	}

	supply, ok := new(big.Int).SetString(strings.TrimSpace(d.Supply), 10)
	if !ok || supply.Sign() <= 0 {
		return Parameters{}, fmt.Errorf("%w: %q", ErrInvalidSupply, d.Supply)
	}
	p.Supply = supply

	dec, err := parseDecimals(d.Decimals)
	if err != nil {
		return Parameters{}, err
	}
	p.Decimals = dec

	theme, err := ParseTheme(d.Theme)
	if err != nil {
		return Parameters{}, err
	}
	p.Theme = theme

	feats, err := normalizeViralFeatures(d.ViralFeatures)
	if err != nil {
		return Parameters{}, err
	}
	p.ViralFeatures = feats

	net, err := chain.ParseNetwork(d.Network)
	if err != nil {
		return Parameters{}, err
	}
	p.Network = net

	return p, nil
}

func parseDecimals(s string) (uint8, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecimals, s)
	}
	if v.Sign() < 0 || v.Cmp(big.NewInt(MaxDecimals)) > 0 {
		return 0, fmt.Errorf("%w: %s (want 0..%d)", ErrInvalidDecimals, v, MaxDecimals)
	}
	return uint8(v.Uint64()), nil
}

func normalizeViralFeatures(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !IsViralFeature(f) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownViralFeature, f)
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, ErrInvalidViralFeatures
	}
	return out, nil
}

// RawSupply is supply * 10^decimals in indivisible units, computed exactly.
func (p Parameters) RawSupply() *big.Int {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.Decimals)), nil)
	return new(big.Int).Mul(p.Supply, exp)
}

// maxU64 is the SPL token supply field width.
var maxU64 = new(big.Int).SetUint64(^uint64(0))

// RawSupplyU64 narrows RawSupply to the on-chain u64 amount field.
func (p Parameters) RawSupplyU64() (uint64, error) {
	raw := p.RawSupply()
	if raw.Cmp(maxU64) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrSupplyOverflow, raw)
	}
	return raw.Uint64(), nil
}
