package firestoreinfra

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ClientWrapper pairs the Firestore client with the project it points at.
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
}

// NewClient initializes a Firestore client. An empty credentialsFile uses
// ADC (Application Default Credentials), which is what Cloud Run provides.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*ClientWrapper, error) {
	var (
		client *firestore.Client
		err    error
	)
	if credentialsFile != "" {
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Printf("[firestore] connected (project: %s)", projectID)
	return &ClientWrapper{Client: client, ProjectID: projectID}, nil
}

// Ping tries a cheap read; Firestore has no dedicated ping API.
func (cw *ClientWrapper) Ping(ctx context.Context) error {
	if cw == nil || cw.Client == nil {
		return fmt.Errorf("firestore client is nil")
	}
	if _, err := cw.Client.Collections(ctx).GetAll(); err != nil {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
