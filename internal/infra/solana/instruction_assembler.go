package solana

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	tokendom "tokenforge/internal/domain/token"
)

var (
	ErrAssemblerPayerEmpty = errors.New("instruction_assembler: payer is empty")
	ErrAssemblerZeroSupply = errors.New("instruction_assembler: raw supply is zero")
)

// AssembleInput is everything the assembler needs. MintRentLamports is
// fetched by the caller beforehand; the assembler itself does no network
// I/O and is deterministic except for the freshly generated mint keypair.
type AssembleInput struct {
	Payer            string // base58; fee payer, mint/freeze authority, supply owner
	Decimals         uint8
	RawSupply        *big.Int // supply * 10^decimals, indivisible units
	MintRentLamports uint64
}

// IssuancePlan is the assembled, not-yet-submitted issuance. The mint
// keypair is unique to this plan; a failed submission discards it and a
// retry must assemble a new plan.
type IssuancePlan struct {
	Mint              types.Account
	Payer             common.PublicKey
	AssociatedAccount common.PublicKey
	Instructions      []types.Instruction
}

// MintAddress returns the plan's mint pubkey in base58.
func (p *IssuancePlan) MintAddress() string { return p.Mint.PublicKey.ToBase58() }

// AssociatedAccountAddress returns the derived holding account in base58.
func (p *IssuancePlan) AssociatedAccountAddress() string { return p.AssociatedAccount.ToBase58() }

// InstructionAssembler builds the fixed four-instruction issuance sequence:
//
//  1. CreateAccount            — allocate the mint account, rent-exempt
//  2. InitializeMint           — decimals + payer as mint/freeze authority
//  3. CreateAssociatedAccount  — derive and create the payer's holding account
//  4. MintTo                   — credit the full initial supply
//
// InitializeMint must follow CreateAccount and MintTo must follow
// CreateAssociatedAccount; the order above is a hard invariant.
type InstructionAssembler struct{}

func NewInstructionAssembler() *InstructionAssembler { return &InstructionAssembler{} }

func (a *InstructionAssembler) Assemble(in AssembleInput) (*IssuancePlan, error) {
	if in.Payer == "" {
		return nil, ErrAssemblerPayerEmpty
	}
	if in.Decimals > tokendom.MaxDecimals {
		return nil, fmt.Errorf("%w: %d (want 0..%d)", tokendom.ErrInvalidDecimals, in.Decimals, tokendom.MaxDecimals)
	}
	if in.RawSupply == nil || in.RawSupply.Sign() <= 0 {
		return nil, ErrAssemblerZeroSupply
	}
	if !in.RawSupply.IsUint64() {
		return nil, fmt.Errorf("%w: %s", tokendom.ErrSupplyOverflow, in.RawSupply)
	}
	rawSupply := in.RawSupply.Uint64()

	payer := common.PublicKeyFromString(in.Payer)

	// New unique mint keypair per call. Reusing one across attempts would
	// try to re-create an existing account on chain and fail.
	mint := types.NewAccount()

	ata, _, err := common.FindAssociatedTokenAddress(payer, mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}

	plan := &IssuancePlan{
		Mint:              mint,
		Payer:             payer,
		AssociatedAccount: ata,
		Instructions: []types.Instruction{
			system.CreateAccount(system.CreateAccountParam{
				From:     payer,
				New:      mint.PublicKey,
				Owner:    common.TokenProgramID,
				Lamports: in.MintRentLamports,
				Space:    token.MintAccountSize,
			}),
			token.InitializeMint(token.InitializeMintParam{
				Decimals:   in.Decimals,
				Mint:       mint.PublicKey,
				MintAuth:   payer,
				FreezeAuth: &payer,
			}),
			associated_token_account.CreateAssociatedTokenAccount(
				associated_token_account.CreateAssociatedTokenAccountParam{
					Funder:                 payer,
					Owner:                  payer,
					Mint:                   mint.PublicKey,
					AssociatedTokenAccount: ata,
				},
			),
			token.MintTo(token.MintToParam{
				Mint:   mint.PublicKey,
				To:     ata,
				Auth:   payer,
				Amount: rawSupply,
			}),
		},
	}
	return plan, nil
}
