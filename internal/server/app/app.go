// Package app assembles the service: configuration, key material,
// storage, broker clients and the HTTP server.
package app

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nivesh/brokerlink/internal/server/fyers"
	serverhttp "github.com/nivesh/brokerlink/internal/server/http"
	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/internal/server/store/drivers/sqlite"
	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/jwtx"
	"github.com/nivesh/brokerlink/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type App struct {
	cfg    Config
	store  store.Store
	server *http.Server
}

// New wires the full dependency graph.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := slogx.New(slogx.Config{
		Service: "brokerlink",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	pepper, err := cryptox.ParsePepper(cfg.PasswordPepper)
	if err != nil {
		return nil, fmt.Errorf("parse pepper: %w", err)
	}

	signingKey, err := loadOrCreateSigningKey(cfg.SigningKeyPath)
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	keys.Add(signingKey.Public().(ed25519.PublicKey))

	signer := jwtx.NewEdDSASigner(signingKey)
	verifier := jwtx.NewEdDSAVerifier(keys, cfg.TokenIssuer)

	st, err := sqlite.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	var fyersOpts []fyers.Option
	if cfg.FyersBaseURL != "" {
		fyersOpts = append(fyersOpts, fyers.WithBaseURL(cfg.FyersBaseURL))
	}
	var zerodhaOpts []zerodha.Option
	if cfg.ZerodhaBaseURL != "" {
		zerodhaOpts = append(zerodhaOpts, zerodha.WithBaseURL(cfg.ZerodhaBaseURL))
	}

	fyersClient := fyers.NewClient(fyersOpts...)
	zerodhaClient := zerodha.NewClient(zerodhaOpts...)

	authSvc := service.NewAuthService(st, signer, verifier, pepper, cfg.TokenIssuer)
	brokerSvc := service.NewBrokerService(st, fyersClient, zerodhaClient)
	verificationSvc := service.NewVerificationService(brokerSvc, cfg.RedirectBaseURL)
	portfolioSvc := service.NewPortfolioService(st, fyersClient, zerodhaClient, brokerSvc)

	router := serverhttp.NewRouter(serverhttp.RouterConfig{
		Logger:        logger,
		Auth:          authSvc,
		Broker:        brokerSvc,
		Verification:  verificationSvc,
		Portfolio:     portfolioSvc,
		Verifier:      verifier,
		Keys:          keys,
		Store:         st,
		EnableSwagger: cfg.EnableSwagger,
	})

	return &App{
		cfg:   cfg,
		store: st,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slogx.FromContext(ctx).Info("listening", "addr", a.cfg.ListenAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		a.store.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if closeErr := a.store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
