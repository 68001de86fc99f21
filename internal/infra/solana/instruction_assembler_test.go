package solana

import (
	"math/big"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokendom "tokenforge/internal/domain/token"
)

func testAssembleInput(payer string) AssembleInput {
	return AssembleInput{
		Payer:            payer,
		Decimals:         9,
		RawSupply:        big.NewInt(1_000_000_000_000_000_000),
		MintRentLamports: 1_461_600,
	}
}

func TestAssembleBuildsTheFixedSequence(t *testing.T) {
	payer := types.NewAccount()
	asm := NewInstructionAssembler()

	plan, err := asm.Assemble(testAssembleInput(payer.PublicKey.ToBase58()))
	require.NoError(t, err)

	// Exactly four instructions: create mint account, initialize mint,
	// create the holding account, mint the supply. Order is a hard
	// dependency chain.
	require.Len(t, plan.Instructions, 4)
	assert.Equal(t, common.SystemProgramID, plan.Instructions[0].ProgramID)
	assert.Equal(t, common.TokenProgramID, plan.Instructions[1].ProgramID)
	assert.Equal(t, common.SPLAssociatedTokenAccountProgramID, plan.Instructions[2].ProgramID)
	assert.Equal(t, common.TokenProgramID, plan.Instructions[3].ProgramID)

	assert.Equal(t, payer.PublicKey, plan.Payer)
	assert.NotEmpty(t, plan.MintAddress())

	// The holding account is the canonical ATA of (payer, mint).
	wantATA, _, err := common.FindAssociatedTokenAddress(payer.PublicKey, plan.Mint.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, wantATA.ToBase58(), plan.AssociatedAccountAddress())
}

func TestAssembleGeneratesAFreshMintPerCall(t *testing.T) {
	payer := types.NewAccount().PublicKey.ToBase58()
	asm := NewInstructionAssembler()

	first, err := asm.Assemble(testAssembleInput(payer))
	require.NoError(t, err)
	second, err := asm.Assemble(testAssembleInput(payer))
	require.NoError(t, err)

	// A failed attempt discards its mint; every assemble — and therefore
	// every retry — must produce a new identity.
	assert.NotEqual(t, first.MintAddress(), second.MintAddress())
	assert.NotEqual(t, first.AssociatedAccountAddress(), second.AssociatedAccountAddress())
}

func TestAssembleInputValidation(t *testing.T) {
	payer := types.NewAccount().PublicKey.ToBase58()
	asm := NewInstructionAssembler()

	t.Run("empty payer", func(t *testing.T) {
		in := testAssembleInput("")
		_, err := asm.Assemble(in)
		assert.ErrorIs(t, err, ErrAssemblerPayerEmpty)
	})

	t.Run("decimals out of range", func(t *testing.T) {
		in := testAssembleInput(payer)
		in.Decimals = 10
		_, err := asm.Assemble(in)
		assert.ErrorIs(t, err, tokendom.ErrInvalidDecimals)
	})

	t.Run("nil supply", func(t *testing.T) {
		in := testAssembleInput(payer)
		in.RawSupply = nil
		_, err := asm.Assemble(in)
		assert.ErrorIs(t, err, ErrAssemblerZeroSupply)
	})

	t.Run("zero supply", func(t *testing.T) {
		in := testAssembleInput(payer)
		in.RawSupply = big.NewInt(0)
		_, err := asm.Assemble(in)
		assert.ErrorIs(t, err, ErrAssemblerZeroSupply)
	})

	t.Run("supply beyond u64", func(t *testing.T) {
		in := testAssembleInput(payer)
		in.RawSupply, _ = new(big.Int).SetString("1000000000000000000000000000", 10) // 10^27
		_, err := asm.Assemble(in)
		assert.ErrorIs(t, err, tokendom.ErrSupplyOverflow)
	})
}
