package solana

import (
	"context"
	"fmt"

	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

// Adapters binding this package's assembler/submitter to the usecase ports.

type IssuanceAssembler struct {
	asm *InstructionAssembler
}

var _ usecase.PlanAssembler = (*IssuanceAssembler)(nil)

func NewIssuanceAssembler() *IssuanceAssembler {
	return &IssuanceAssembler{asm: NewInstructionAssembler()}
}

func (a *IssuanceAssembler) Assemble(in usecase.AssembleInput) (usecase.IssuancePlan, error) {
	plan, err := a.asm.Assemble(AssembleInput{
		Payer:            in.Payer,
		Decimals:         in.Decimals,
		RawSupply:        in.RawSupply,
		MintRentLamports: in.MintRentLamports,
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

type IssuanceSubmitter struct {
	sub *TransactionSubmitter
}

var _ usecase.PlanSubmitter = (*IssuanceSubmitter)(nil)

func NewIssuanceSubmitter(sub *TransactionSubmitter) *IssuanceSubmitter {
	return &IssuanceSubmitter{sub: sub}
}

func (s *IssuanceSubmitter) Submit(
	ctx context.Context,
	net chain.Network,
	plan usecase.IssuancePlan,
	signer issuance.TransactionSigner,
) (string, error) {
	concrete, ok := plan.(*IssuancePlan)
	if !ok {
		return "", fmt.Errorf("tx_submitter: unexpected plan type %T", plan)
	}
	return s.sub.Submit(ctx, net, concrete, signer)
}

// RentReaderAdapter satisfies usecase.RentReader on the client factory.
type RentReaderAdapter struct {
	Clients *ClientFactory
}

var _ usecase.RentReader = (*RentReaderAdapter)(nil)

func (r *RentReaderAdapter) MintRent(ctx context.Context, net chain.Network) (uint64, error) {
	if r == nil || r.Clients == nil {
		return 0, ErrBalanceCheckerNotConfigured
	}
	return r.Clients.For(net).MintRentLamports(ctx)
}

var _ usecase.BalanceReader = (*BalanceChecker)(nil)
