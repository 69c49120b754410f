// Package http wires the service layer to the network: route
// registration, request decoding and error mapping.
package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/nivesh/brokerlink/api/server" // swagger docs registration

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/pkg/httpx"
	"github.com/nivesh/brokerlink/pkg/idx"
	"github.com/nivesh/brokerlink/pkg/jwtx"
	"github.com/nivesh/brokerlink/pkg/slogx"
)

// RouterConfig carries everything the routes need.
type RouterConfig struct {
	Logger *slog.Logger

	Auth         *service.AuthService
	Broker       *service.BrokerService
	Verification *service.VerificationService
	Portfolio    *service.PortfolioService

	Verifier jwtx.Verifier
	Keys     *jwtx.KeySet
	Store    store.Store

	EnableSwagger bool
}

// NewRouter builds the full route table. Rate limit profiles follow
// endpoint sensitivity: credential writes are strict, reads are
// lenient, health probes are public.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authn := httpx.RequireAuth(cfg.Verifier)

	// Verification is checked against current account state, not the
	// claim baked into the token, so flipping the flag takes effect on
	// tokens already in the wild.
	verified := httpx.RequireVerified(func(ctx context.Context, subject string) (bool, error) {
		id, err := idx.Parse(subject)
		if err != nil {
			return false, err
		}
		user, err := cfg.Auth.GetUser(ctx, id)
		if err != nil {
			return false, err
		}
		return user.Verified, nil
	})

	// Auth surface.
	mux.Handle("POST /v1/auth/register", httpx.Chain(
		&RegisterHandler{Auth: cfg.Auth},
		httpx.RateLimit(httpx.Strict),
	))
	mux.Handle("POST /v1/auth/login", httpx.Chain(
		&LoginHandler{Auth: cfg.Auth},
		httpx.RateLimit(httpx.Strict),
	))
	mux.Handle("GET /v1/auth/verify", httpx.Chain(
		&VerifyHandler{Auth: cfg.Auth},
		httpx.RateLimit(httpx.Lenient), authn,
	))
	mux.Handle("POST /v1/auth/verify-account", httpx.Chain(
		&VerifyAccountHandler{Auth: cfg.Auth},
		httpx.RateLimit(httpx.Strict),
	))

	// Broker link surface. Everything past this point needs a verified
	// account.
	mux.Handle("GET /v1/broker/credentials", httpx.Chain(
		&CredentialsHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))
	mux.Handle("PUT /v1/broker/credentials", httpx.Chain(
		&PutCredentialsHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Strict), authn, verified,
	))
	mux.Handle("GET /v1/broker/zerodha/credentials", httpx.Chain(
		&ZerodhaCredentialsHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))
	mux.Handle("PUT /v1/broker/zerodha/credentials", httpx.Chain(
		&PutZerodhaCredentialsHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Strict), authn, verified,
	))
	mux.Handle("POST /v1/broker/validate", httpx.Chain(
		&ValidateHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))
	mux.Handle("POST /v1/broker/clear-tokens", httpx.Chain(
		&ClearTokensHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))
	mux.Handle("GET /v1/broker/verification", httpx.Chain(
		&VerificationHandler{Verification: cfg.Verification},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))
	mux.Handle("PUT /v1/broker/settings", httpx.Chain(
		&RiskLimitsHandler{Broker: cfg.Broker},
		httpx.RateLimit(httpx.Moderate), authn, verified,
	))

	// Portfolio reads.
	mux.Handle("GET /v1/portfolio/funds", httpx.Chain(
		&FundsHandler{Portfolio: cfg.Portfolio},
		httpx.RateLimit(httpx.Lenient), authn, verified,
	))
	mux.Handle("GET /v1/portfolio/positions", httpx.Chain(
		&PositionsHandler{Portfolio: cfg.Portfolio},
		httpx.RateLimit(httpx.Lenient), authn, verified,
	))
	mux.Handle("GET /v1/portfolio/holdings", httpx.Chain(
		&HoldingsHandler{Portfolio: cfg.Portfolio},
		httpx.RateLimit(httpx.Lenient), authn, verified,
	))

	// Discovery and health.
	mux.Handle("GET /.well-known/jwks.json", httpx.Chain(
		&JWKSHandler{Keys: cfg.Keys},
		httpx.RateLimit(httpx.Public),
	))
	mux.Handle("GET /livez", &LivezHandler{})
	mux.Handle("GET /readyz", &ReadyzHandler{Store: cfg.Store})

	if cfg.EnableSwagger {
		mux.Handle("GET /swagger/", httpSwagger.Handler())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return slogx.HTTPMiddleware(logger)(mux)
}
