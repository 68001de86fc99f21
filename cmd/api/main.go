package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpin "tokenforge/internal/adapters/in/http"
	"tokenforge/internal/adapters/in/http/middleware"
	"tokenforge/internal/infra/config"
	"tokenforge/internal/platform/di"
)

func main() {
	ctx := context.Background()

	// Lightweight healthz first so PORT is LISTENed quickly.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	cfg := config.Load()

	// DI container and heavy deps; keep /healthz even on failure.
	var cont *di.Container
	if c, err := di.Build(ctx, cfg); err != nil {
		log.Printf("[boot] WARN: di init failed: %v (serving /healthz only)", err)
	} else {
		cont = c
		defer cont.Close()

		if cont.FeePayer == nil {
			log.Printf("[boot] RouterDeps.FeePayer is NIL (POST /api/token/create disabled)")
		} else {
			log.Printf("[boot] RouterDeps.FeePayer: %T", cont.FeePayer)
		}
		if cont.Records == nil {
			log.Printf("[boot] RouterDeps.Records is NIL (GET /api/token/recent disabled)")
		}

		router := httpin.NewRouter(httpin.RouterDeps{
			IssuanceUC: cont.IssuanceUC,
			FeePayer:   cont.FeePayer,
			Records:    cont.Records,
			Secrets:    cont.Secrets,
		})
		mux.Handle("/", router)
	}

	// Port resolution: config → env:PORT → 8080.
	port := cfg.Port
	if port == "" {
		if p := os.Getenv("PORT"); p != "" {
			port = p
		} else {
			port = "8080"
		}
	}

	// Global wrappers cover /healthz and app routes alike.
	handler := middleware.Recover(middleware.CORS(cfg.AllowedOrigin, mux))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // deploy waits for on-chain confirmation
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown for Cloud Run.
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("[boot] listening on :%s network=%s", port, cfg.DefaultNetwork)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] server error: %v", err)
	}

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
