package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivesh/brokerlink/internal/server/fyers"
	serverhttp "github.com/nivesh/brokerlink/internal/server/http"
	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/internal/server/store/drivers/sqlite"
	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/jwtx"
	"github.com/nivesh/brokerlink/pkg/linksdk"
)

// fakeBroker serves just enough of the Fyers API for the full link
// flow: auth code exchange and the funds probe.
type fakeBroker struct {
	srv        *httptest.Server
	issueToken string
	dead       bool
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()

	f := &fakeBroker{issueToken: "fy-live-token"}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/validate-authcode":
			json.NewEncoder(w).Encode(map[string]any{
				"s": "ok", "code": 200, "access_token": f.issueToken, "refresh_token": "fy-live-refresh",
			})
		case "/funds":
			if f.dead || r.Header.Get("Authorization") != "APP-100:"+f.issueToken {
				json.NewEncoder(w).Encode(map[string]any{"s": "error", "code": -16, "message": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"s": "ok", "code": 200,
				"fund_limit": []map[string]any{
					{"id": 1, "title": "Available Balance", "equityAmount": 98765.43, "commodityAmount": 0},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newTestServer(t *testing.T, broker *fakeBroker) *linksdk.Client {
	t.Helper()

	st, err := sqlite.Open(context.Background(), "file:"+t.TempDir()+"/e2e.db")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pub, priv, err := cryptox.GenerateEd25519()
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.Add(pub)

	pepper, err := cryptox.ParsePepper("ZTJlLXBlcHBlci1sb25nLWVub3VnaA==")
	require.NoError(t, err)

	signer := jwtx.NewEdDSASigner(priv)
	verifier := jwtx.NewEdDSAVerifier(keys, "e2e-issuer")

	fc := fyers.NewClient(fyers.WithBaseURL(broker.srv.URL))
	zc := zerodha.NewClient(zerodha.WithBaseURL(broker.srv.URL))

	authSvc := service.NewAuthService(st, signer, verifier, pepper, "e2e-issuer")
	brokerSvc := service.NewBrokerService(st, fc, zc)
	verificationSvc := service.NewVerificationService(brokerSvc, "https://app.example.com/fyers/callback")
	portfolioSvc := service.NewPortfolioService(st, fc, zc, brokerSvc)

	handler := serverhttp.NewRouter(serverhttp.RouterConfig{
		Auth:         authSvc,
		Broker:       brokerSvc,
		Verification: verificationSvc,
		Portfolio:    portfolioSvc,
		Verifier:     verifier,
		Keys:         keys,
		Store:        st,
	})

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	return linksdk.New(api.URL, linksdk.WithHTTPClient(api.Client()))
}

func TestFullLinkFlow(t *testing.T) {
	ctx := context.Background()
	broker := newFakeBroker(t)
	client := newTestServer(t, broker)

	// Register and authenticate.
	reg, err := client.Register(ctx, linksdk.RegisterRequest{
		Email:    "trader@example.com",
		Name:     "Trader",
		Password: "password123",
	})
	require.NoError(t, err)
	require.True(t, reg.Success)
	client.SetToken(reg.Token)

	// Broker routes are closed until the account is verified.
	_, err = client.GetCredentials(ctx)
	require.True(t, linksdk.IsStatus(err, http.StatusForbidden))

	_, err = client.VerifyAccount(ctx, "trader@example.com")
	require.NoError(t, err)

	// Workflow starts at requires_credentials.
	verif, err := client.Verification(ctx)
	require.NoError(t, err)
	require.Equal(t, "requires_credentials", verif.Status)

	// Credentials without an auth code: configured, not authorized.
	creds, err := client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID:  "APP-100",
		SecretKey: "app-secret",
	})
	require.NoError(t, err)
	require.True(t, creds.Configured)
	require.False(t, creds.Authorized)

	verif, err = client.Verification(ctx)
	require.NoError(t, err)
	require.Equal(t, "requires_auth", verif.Status)

	// Auth code exchange completes the link.
	creds, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID:  "APP-100",
		SecretKey: "app-secret",
		AuthCode:  "one-time-code",
	})
	require.NoError(t, err)
	require.True(t, creds.Authorized)
	require.Equal(t, "fyers", creds.Provider)

	verif, err = client.Verification(ctx)
	require.NoError(t, err)
	require.Equal(t, "success", verif.Status)

	// Portfolio reads flow through the stored session.
	funds, err := client.Funds(ctx)
	require.NoError(t, err)
	require.Len(t, funds.Limits, 1)
	require.Equal(t, "Available Balance", funds.Limits[0].Title)
	require.Equal(t, "98765.43", funds.Limits[0].Equity)

	// Validation confirms the live session.
	valid, err := client.ValidateTokens(ctx)
	require.NoError(t, err)
	require.True(t, valid.Valid)

	// Replaying the consumed auth code is refused.
	_, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID:  "APP-100",
		SecretKey: "app-secret",
		AuthCode:  "one-time-code",
	})
	require.True(t, linksdk.IsStatus(err, http.StatusConflict))
}

func TestCredentialRoundTrip(t *testing.T) {
	ctx := context.Background()
	broker := newFakeBroker(t)
	client := newTestServer(t, broker)

	reg, err := client.Register(ctx, linksdk.RegisterRequest{
		Email: "trader@example.com", Name: "Trader", Password: "password123",
	})
	require.NoError(t, err)
	client.SetToken(reg.Token)

	_, err = client.VerifyAccount(ctx, "trader@example.com")
	require.NoError(t, err)

	// Saved credentials read back as the same values once the transit
	// encoding is stripped.
	_, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID:  "APP-100",
		SecretKey: "app-secret",
	})
	require.NoError(t, err)

	creds, err := client.GetCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, "APP-100", cryptox.RevealText(creds.ClientID))
	require.Equal(t, "app-secret", cryptox.RevealText(creds.SecretKey))
	require.False(t, creds.TokenValid)
	require.Empty(t, creds.AccessToken)

	// The auth-code return leg carries only the code; stored app
	// credentials drive the exchange, and the token pair reads back.
	_, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		AuthCode: "one-time-code",
	})
	require.NoError(t, err)

	creds, err = client.GetCredentials(ctx)
	require.NoError(t, err)
	require.True(t, creds.TokenValid)
	require.Equal(t, "fy-live-token", creds.AccessToken)
	require.Equal(t, "fy-live-refresh", creds.RefreshToken)
}

func TestInvalidSessionIsCleared(t *testing.T) {
	ctx := context.Background()
	broker := newFakeBroker(t)
	client := newTestServer(t, broker)

	reg, err := client.Register(ctx, linksdk.RegisterRequest{
		Email: "trader@example.com", Name: "Trader", Password: "password123",
	})
	require.NoError(t, err)
	client.SetToken(reg.Token)

	_, err = client.VerifyAccount(ctx, "trader@example.com")
	require.NoError(t, err)

	_, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID: "APP-100", SecretKey: "app-secret", AuthCode: "one-time-code",
	})
	require.NoError(t, err)

	// Broker starts rejecting the session.
	broker.dead = true

	valid, err := client.ValidateTokens(ctx)
	require.NoError(t, err)
	require.False(t, valid.Valid)

	// Cleared tokens drop the workflow back to requires_auth, and the
	// app credentials survive.
	verif, err := client.Verification(ctx)
	require.NoError(t, err)
	require.Equal(t, "requires_auth", verif.Status)

	creds, err := client.GetCredentials(ctx)
	require.NoError(t, err)
	require.True(t, creds.Configured)
	require.False(t, creds.Authorized)
}

func TestClearTokensEndpoint(t *testing.T) {
	ctx := context.Background()
	broker := newFakeBroker(t)
	client := newTestServer(t, broker)

	reg, err := client.Register(ctx, linksdk.RegisterRequest{
		Email: "trader@example.com", Name: "Trader", Password: "password123",
	})
	require.NoError(t, err)
	client.SetToken(reg.Token)

	_, err = client.VerifyAccount(ctx, "trader@example.com")
	require.NoError(t, err)

	_, err = client.PutFyersCredentials(ctx, linksdk.FyersCredentialsRequest{
		ClientID: "APP-100", SecretKey: "app-secret", AuthCode: "one-time-code",
	})
	require.NoError(t, err)

	_, err = client.ClearTokens(ctx)
	require.NoError(t, err)

	creds, err := client.GetCredentials(ctx)
	require.NoError(t, err)
	require.True(t, creds.Configured)
	require.False(t, creds.Authorized)

	// Portfolio reads now refuse until re-authorization.
	_, err = client.Funds(ctx)
	require.True(t, linksdk.IsStatus(err, http.StatusConflict))
}
