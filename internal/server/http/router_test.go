package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
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
)

type fixture struct {
	handler stdhttp.Handler
	auth    *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.Open(context.Background(), "file:"+t.TempDir()+"/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pub, priv, err := cryptox.GenerateEd25519()
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.Add(pub)

	pepper, err := cryptox.ParsePepper("dGVzdC1wZXBwZXItbXVzdC1iZS1sb25n")
	require.NoError(t, err)

	signer := jwtx.NewEdDSASigner(priv)
	verifier := jwtx.NewEdDSAVerifier(keys, "test-issuer")

	// Broker backends are unreachable; these tests only exercise the
	// HTTP surface up to the service boundary.
	fc := fyers.NewClient(fyers.WithBaseURL("http://127.0.0.1:0"))
	zc := zerodha.NewClient(zerodha.WithBaseURL("http://127.0.0.1:0"))

	authSvc := service.NewAuthService(st, signer, verifier, pepper, "test-issuer")
	brokerSvc := service.NewBrokerService(st, fc, zc)
	verificationSvc := service.NewVerificationService(brokerSvc, "")
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

	return &fixture{handler: handler, auth: authSvc}
}

func (fx *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:9999"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterLoginVerify(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "jane@example.com", "name": "Jane", "password": "password123",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	reg := decode[serverhttp.AuthResponse](t, rec)
	require.True(t, reg.Success)
	require.NotEmpty(t, reg.Token)
	require.False(t, reg.User.Verified)

	// Login is refused until the account is verified.
	rec = fx.do(t, stdhttp.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = fx.do(t, stdhttp.MethodPost, "/v1/auth/verify-account", "", map[string]string{
		"email": "jane@example.com",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = fx.do(t, stdhttp.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	login := decode[serverhttp.AuthResponse](t, rec)
	require.NotEmpty(t, login.Token)

	rec = fx.do(t, stdhttp.MethodGet, "/v1/auth/verify", login.Token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	verify := decode[serverhttp.VerifyResponse](t, rec)
	require.Equal(t, "jane@example.com", verify.User.Email)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "nope", "name": "Jane", "password": "password123",
	})
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	env := decode[serverhttp.Envelope](t, rec)
	require.False(t, env.Success)
	require.NotEmpty(t, env.Message)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	fx := newFixture(t)

	body := map[string]string{"email": "jane@example.com", "name": "Jane", "password": "password123"}
	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", body)
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	rec = fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", body)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	fx := newFixture(t)

	fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "jane@example.com", "name": "Jane", "password": "password123",
	})

	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	})
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestBrokerRoutesNeedAuth(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodGet, "/v1/broker/credentials", "", nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = fx.do(t, stdhttp.MethodGet, "/v1/broker/credentials", "garbage-token", nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestBrokerRoutesNeedVerifiedAccount(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "jane@example.com", "name": "Jane", "password": "password123",
	})
	token := decode[serverhttp.AuthResponse](t, rec).Token

	// Freshly registered accounts are not verified yet.
	rec = fx.do(t, stdhttp.MethodGet, "/v1/broker/credentials", token, nil)
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = fx.do(t, stdhttp.MethodPost, "/v1/auth/verify-account", "", map[string]string{
		"email": "jane@example.com",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	// Verification applies to the old token immediately: state is
	// re-read from the store per request.
	rec = fx.do(t, stdhttp.MethodGet, "/v1/broker/credentials", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	view := decode[serverhttp.CredentialsView](t, rec)
	require.False(t, view.Configured)
}

func TestPortfolioWithoutCredentials(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "jane@example.com", "name": "Jane", "password": "password123",
	})
	token := decode[serverhttp.AuthResponse](t, rec).Token

	fx.do(t, stdhttp.MethodPost, "/v1/auth/verify-account", "", map[string]string{"email": "jane@example.com"})

	rec = fx.do(t, stdhttp.MethodGet, "/v1/portfolio/funds", token, nil)
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestJWKSIsPublic(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	doc := decode[jwtx.JWKS](t, rec)
	require.Len(t, doc.Keys, 1)
}

func TestHealthProbes(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, stdhttp.MethodGet, "/livez", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = fx.do(t, stdhttp.MethodGet, "/readyz", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
}
