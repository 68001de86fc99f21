package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
)

var ErrIssuanceNotFound = errors.New("issuance repository: not found")

// issuanceDoc is the issuances/{mintAddress} view.
type issuanceDoc struct {
	MintAddress       string    `firestore:"mintAddress"`
	Signature         string    `firestore:"signature"`
	AssociatedAccount string    `firestore:"associatedAccount"`
	ExplorerURL       string    `firestore:"explorerUrl"`
	Network           string    `firestore:"network"`
	IssuedAt          time.Time `firestore:"issuedAt"`
}

// IssuanceRepositoryFS keeps one document per confirmed deploy, keyed by
// mint address (unique per issuance by construction).
type IssuanceRepositoryFS struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

var _ issuance.Recorder = (*IssuanceRepositoryFS)(nil)

func NewIssuanceRepositoryFS(client *firestore.Client, collection string) *IssuanceRepositoryFS {
	col := strings.TrimSpace(collection)
	if col == "" {
		col = "issuances"
	}
	return &IssuanceRepositoryFS{
		client: client,
		col:    client.Collection(col),
	}
}

// Record implements issuance.Recorder.
func (r *IssuanceRepositoryFS) Record(ctx context.Context, res issuance.Result) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("issuance repository: client is nil")
	}
	mint := strings.TrimSpace(res.MintAddress)
	if mint == "" {
		return fmt.Errorf("issuance repository: mintAddress is empty")
	}

	doc := issuanceDoc{
		MintAddress:       mint,
		Signature:         res.Signature,
		AssociatedAccount: res.AssociatedAccount,
		ExplorerURL:       res.ExplorerURL,
		Network:           string(res.Network),
		IssuedAt:          res.IssuedAt,
	}

	if _, err := r.col.Doc(mint).Set(ctx, doc); err != nil {
		return fmt.Errorf("issuance repository: Set %s: %w", mint, err)
	}
	return nil
}

// GetByMintAddress loads one recorded issuance.
func (r *IssuanceRepositoryFS) GetByMintAddress(ctx context.Context, mintAddress string) (issuance.Result, error) {
	mint := strings.TrimSpace(mintAddress)
	if mint == "" {
		return issuance.Result{}, fmt.Errorf("issuance repository: mintAddress is empty")
	}

	snap, err := r.col.Doc(mint).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return issuance.Result{}, ErrIssuanceNotFound
		}
		return issuance.Result{}, fmt.Errorf("issuance repository: Get %s: %w", mint, err)
	}

	var doc issuanceDoc
	if err := snap.DataTo(&doc); err != nil {
		return issuance.Result{}, fmt.Errorf("issuance repository: decode %s: %w", mint, err)
	}
	return docToResult(doc), nil
}

// ListRecent returns the latest recorded issuances, newest first.
func (r *IssuanceRepositoryFS) ListRecent(ctx context.Context, limit int) ([]issuance.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	iter := r.col.OrderBy("issuedAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	out := make([]issuance.Result, 0, limit)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("issuance repository: iterate: %w", err)
		}
		var doc issuanceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("issuance repository: decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, docToResult(doc))
	}
	return out, nil
}

func docToResult(d issuanceDoc) issuance.Result {
	net, err := chain.ParseNetwork(d.Network)
	if err != nil {
		net = chain.NetworkDevnet
	}
	return issuance.Result{
		MintAddress:       d.MintAddress,
		Signature:         d.Signature,
		AssociatedAccount: d.AssociatedAccount,
		ExplorerURL:       d.ExplorerURL,
		Network:           net,
		IssuedAt:          d.IssuedAt,
	}
}
