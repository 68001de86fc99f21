package mail

import (
	"context"
	"fmt"
	"strings"

	"tokenforge/internal/domain/issuance"
)

// IssuanceMailer implements issuance.Notifier: a short confirmation mail
// for every confirmed deploy. Failures here never fail the deploy; the
// orchestrator only logs them.
type IssuanceMailer struct {
	client      EmailClient
	fromAddress string
	toAddress   string
}

var _ issuance.Notifier = (*IssuanceMailer)(nil)

func NewIssuanceMailer(client EmailClient, fromAddress, toAddress string) *IssuanceMailer {
	return &IssuanceMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		toAddress:   strings.TrimSpace(toAddress),
	}
}

func (m *IssuanceMailer) NotifyIssued(ctx context.Context, res issuance.Result) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("issuance mailer is not configured")
	}

	subject := fmt.Sprintf("Token deployed on Solana %s", res.Network)

	body := fmt.Sprintf(
		`A new token was deployed.

Network:            %s
Mint address:       %s
Holding account:    %s
Transaction:        %s
Explorer:           %s
Issued at:          %s
`,
		res.Network,
		res.MintAddress,
		res.AssociatedAccount,
		res.Signature,
		res.ExplorerURL,
		res.IssuedAt.Format("2006-01-02 15:04:05 MST"),
	)

	return m.client.Send(ctx, m.fromAddress, m.toAddress, subject, body)
}
