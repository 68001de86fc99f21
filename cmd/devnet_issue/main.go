package main

import (
	"context"
	"flag"
	"log"
	"time"

	tokendom "tokenforge/internal/domain/token"
	"tokenforge/internal/infra/config"
	"tokenforge/internal/platform/di"
)

// devnet_issue deploys one token on devnet from the command line, using the
// same container wiring as the API. Smoke tool, not a user surface.
func main() {
	name := flag.String("name", "Test Token", "token name")
	symbol := flag.String("symbol", "TEST", "ticker symbol")
	desc := flag.String("description", "devnet smoke deploy", "token description")
	supply := flag.String("supply", "1000000000", "whole-token supply")
	decimals := flag.String("decimals", "9", "mint decimals (0-9)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cont, err := di.Build(ctx, config.Load())
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer cont.Close()

	if cont.FeePayer == nil {
		log.Fatalf("no fee payer configured; set TOKENFORGE_FEE_PAYER_KEYPAIR or TOKENFORGE_FEE_PAYER_SECRET")
	}

	draft := tokendom.Draft{
		Name:        *name,
		Symbol:      *symbol,
		Description: *desc,
		Supply:      *supply,
		Decimals:    *decimals,
		Network:     "devnet",
	}

	res, err := cont.IssuanceUC.Deploy(ctx, draft, cont.FeePayer)
	if err != nil {
		log.Fatalf("deploy failed: %v", err)
	}

	log.Printf("mint:       %s", res.MintAddress)
	log.Printf("holding:    %s", res.AssociatedAccount)
	log.Printf("signature:  %s", res.Signature)
	log.Printf("explorer:   %s", res.ExplorerURL)
}
