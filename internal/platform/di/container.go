package di

import (
	"context"
	"fmt"
	"log"

	fsrepo "tokenforge/internal/adapters/out/firestore"
	"tokenforge/internal/adapters/out/mail"
	"tokenforge/internal/application/usecase"
	"tokenforge/internal/domain/issuance"
	"tokenforge/internal/infra/config"
	firestoreinfra "tokenforge/internal/infra/firestore"
	infsol "tokenforge/internal/infra/solana"
)

// Container is the bundle main.go consumes. Building it here keeps main
// thin: config in, wired usecases and adapters out.
type Container struct {
	Config *config.Config

	IssuanceUC *usecase.IssuanceUsecase

	// FeePayer is the server-side signer; nil when no keypair source is
	// configured (the API then refuses POST /api/token/create).
	FeePayer issuance.TransactionSigner

	Records *fsrepo.IssuanceRepositoryFS
	Secrets *infsol.WalletSecretStore

	cleanup []func()
}

// Close releases external clients. Safe on a partially built container.
func (c *Container) Close() {
	for _, fn := range c.cleanup {
		fn()
	}
}

// Build wires the full dependency graph from config. Optional pieces
// (Firestore records, SendGrid notification, fee payer) degrade to nil
// with a WARN instead of failing startup.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("di: cfg is nil")
	}

	c := &Container{Config: cfg}

	clients := infsol.NewClientFactory(cfg.RPCOverrides())

	balances := infsol.NewBalanceChecker(clients)
	rents := &infsol.RentReaderAdapter{Clients: clients}
	assembler := infsol.NewIssuanceAssembler()
	submitter := infsol.NewIssuanceSubmitter(infsol.NewTransactionSubmitter(clients))

	uc := usecase.NewIssuanceUsecase(balances, rents, assembler, submitter, cfg.MinDeploySOL)

	if cfg.FirestoreProjectID != "" {
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			log.Printf("[di] WARN: firestore init failed, issuance records disabled: %v", err)
		} else {
			c.cleanup = append(c.cleanup, func() { _ = fs.Close() })
			c.Records = fsrepo.NewIssuanceRepositoryFS(fs.Client, cfg.IssuancesCollection)
			uc = uc.WithRecorder(c.Records)
		}
	}

	if cfg.SendGridAPIKey != "" && cfg.SendGridFrom != "" && cfg.NotifyEmail != "" {
		mailer := mail.NewIssuanceMailer(
			mail.NewSendGridClient(cfg.SendGridAPIKey),
			cfg.SendGridFrom,
			cfg.NotifyEmail,
		)
		uc = uc.WithNotifier(mailer)
	}

	c.FeePayer = loadFeePayer(ctx, cfg)
	c.Secrets = infsol.NewWalletSecretStore(cfg.GCPProject, cfg.WalletSecretPrefix)
	c.IssuanceUC = uc

	return c, nil
}

// loadFeePayer resolves the server-side signer: Secret Manager first, then
// a local keypair file. Nil means server-side deploys are off.
func loadFeePayer(ctx context.Context, cfg *config.Config) issuance.TransactionSigner {
	if cfg.FeePayerSecret != "" {
		signer, err := infsol.LoadSignerFromSecret(ctx, cfg.FeePayerSecret)
		if err != nil {
			log.Printf("[di] WARN: fee payer secret load failed: %v", err)
		} else {
			return signer
		}
	}
	if cfg.FeePayerKeypairFile != "" {
		signer, err := infsol.NewLocalWalletSignerFromFile(cfg.FeePayerKeypairFile)
		if err != nil {
			log.Printf("[di] WARN: fee payer keypair file load failed: %v", err)
		} else {
			return signer
		}
	}
	log.Printf("[di] no fee payer configured; server-side deploys are disabled")
	return nil
}
