package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/fyers"
	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/idx"
)

// fakeFyers is a scriptable stand-in for the Fyers API.
type fakeFyers struct {
	srv *httptest.Server

	exchangeCalls atomic.Int64
	rejectCode    bool
	rejectToken   bool
	badCodeOK     bool
}

func newFakeFyers(t *testing.T) *fakeFyers {
	t.Helper()

	f := &fakeFyers{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/validate-authcode":
			f.exchangeCalls.Add(1)
			if f.rejectCode {
				json.NewEncoder(w).Encode(map[string]any{"s": "error", "code": -413, "message": "invalid auth code"})
				return
			}
			if f.badCodeOK {
				json.NewEncoder(w).Encode(map[string]any{"s": "ok", "code": 500, "access_token": "BAD-T"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"s": "ok", "code": 200, "access_token": "fy-token", "refresh_token": "fy-refresh"})
		case "/funds":
			if f.rejectToken {
				json.NewEncoder(w).Encode(map[string]any{"s": "error", "code": -16, "message": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"s": "ok", "code": 200, "fund_limit": []any{}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

type brokerFixture struct {
	store  store.Store
	broker *service.BrokerService
	verif  *service.VerificationService
	fyers  *fakeFyers
	userID idx.ID
}

func newBrokerFixture(t *testing.T) *brokerFixture {
	t.Helper()

	ctx := context.Background()
	st := newStore(t)
	auth := newAuthService(t, st)

	user, _, err := auth.Register(ctx, "trader@example.com", "Trader", "password123")
	require.NoError(t, err)

	fake := newFakeFyers(t)
	fc := fyers.NewClient(fyers.WithBaseURL(fake.srv.URL))
	zc := zerodha.NewClient(zerodha.WithBaseURL(fake.srv.URL))

	broker := service.NewBrokerService(st, fc, zc)
	verif := service.NewVerificationService(broker, "https://app.example.com/fyers/callback")

	return &brokerFixture{store: st, broker: broker, verif: verif, fyers: fake, userID: user.ID}
}

func obscured(s string) string { return cryptox.ObscureText(s) }

func TestSetFyersCredentialsWithoutAuthCode(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	user, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "")
	require.NoError(t, err)
	require.Equal(t, "APP-100", user.Fyers.ClientID)
	require.Equal(t, domain.ProviderFyers, user.Provider)
	require.True(t, user.Fyers.Configured())
	require.False(t, user.Fyers.Authorized())
	require.Zero(t, fx.fyers.exchangeCalls.Load())
}

func TestSetFyersCredentialsAcceptsPlainText(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	// Raw values that are not valid base64 pass through unchanged.
	user, err := fx.broker.SetFyersCredentials(ctx, fx.userID, "APP-100!", "plain secret!", "")
	require.NoError(t, err)
	require.Equal(t, "APP-100!", user.Fyers.ClientID)
}

func TestSetFyersCredentialsExchangesAuthCode(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	user, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)
	require.Equal(t, "fy-token", user.Fyers.AccessToken)
	require.Equal(t, "fy-refresh", user.Fyers.RefreshToken)
	require.True(t, user.Fyers.Authorized())
	require.EqualValues(t, 1, fx.fyers.exchangeCalls.Load())
}

func TestAuthCodeOnlyUpdateUsesStoredCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "")
	require.NoError(t, err)

	// The consent-page return leg delivers only the auth code; the
	// stored app credentials fill the gaps.
	user, err := fx.broker.SetFyersCredentials(ctx, fx.userID, "", "", "code-1")
	require.NoError(t, err)
	require.Equal(t, "APP-100", user.Fyers.ClientID)
	require.Equal(t, "fy-token", user.Fyers.AccessToken)
	require.EqualValues(t, 1, fx.fyers.exchangeCalls.Load())
}

func TestZerodhaPartialUpdateKeepsStoredKey(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetZerodhaCredentials(ctx, fx.userID, obscured("zkey"), obscured("zsecret"), "")
	require.NoError(t, err)

	user, err := fx.broker.SetZerodhaCredentials(ctx, fx.userID, "", obscured("rotated-secret"), "")
	require.NoError(t, err)
	require.Equal(t, "zkey", user.Zerodha.APIKey)
	require.Equal(t, "rotated-secret", user.Zerodha.APISecret)
}

func TestExchangeOKStatusWithBadCodeNotStored(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)
	fx.fyers.badCodeOK = true

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.ErrorIs(t, err, service.ErrBrokerRejected)

	user, err := fx.broker.Credentials(ctx, fx.userID)
	require.NoError(t, err)
	require.Empty(t, user.Fyers.AccessToken)
}

func TestAuthCodeIsConsumedAtMostOnce(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	// Replaying the same code must fail before reaching the broker.
	_, err = fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.ErrorIs(t, err, service.ErrAuthCodeUsed)
	require.EqualValues(t, 1, fx.fyers.exchangeCalls.Load())

	// A fresh code goes through.
	_, err = fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-2")
	require.NoError(t, err)
}

func TestNewCredentialsClearOldTokens(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	// Saving new credentials without an auth code drops the session.
	user, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-200"), obscured("secret2"), "")
	require.NoError(t, err)
	require.Equal(t, "APP-200", user.Fyers.ClientID)
	require.Empty(t, user.Fyers.AccessToken)
	require.Empty(t, user.Fyers.RefreshToken)
}

func TestExchangeRejectionLeavesCredentialsStored(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)
	fx.fyers.rejectCode = true

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "stale-code")
	require.ErrorIs(t, err, service.ErrBrokerRejected)

	user, err := fx.broker.Credentials(ctx, fx.userID)
	require.NoError(t, err)
	require.True(t, user.Fyers.Configured())
	require.False(t, user.Fyers.Authorized())
}

func TestValidateClearsRejectedTokens(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	valid, err := fx.broker.Validate(ctx, fx.userID)
	require.NoError(t, err)
	require.True(t, valid)

	// A second validate of the same live session is valid again and
	// leaves the stored credentials untouched.
	valid, err = fx.broker.Validate(ctx, fx.userID)
	require.NoError(t, err)
	require.True(t, valid)

	user, err := fx.broker.Credentials(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, "APP-100", user.Fyers.ClientID)
	require.Equal(t, "fy-token", user.Fyers.AccessToken)

	fx.fyers.rejectToken = true

	valid, err = fx.broker.Validate(ctx, fx.userID)
	require.NoError(t, err)
	require.False(t, valid)

	user, err = fx.broker.Credentials(ctx, fx.userID)
	require.NoError(t, err)
	require.Empty(t, user.Fyers.AccessToken)
	require.Empty(t, user.Fyers.RefreshToken)

	// A second validate on the already-cleared account stays false
	// without error.
	valid, err = fx.broker.Validate(ctx, fx.userID)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestValidateWithoutSession(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	valid, err := fx.broker.Validate(ctx, fx.userID)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestClearTokensKeepsAppCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	require.NoError(t, fx.broker.ClearTokens(ctx, fx.userID))

	user, err := fx.broker.Credentials(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, "APP-100", user.Fyers.ClientID)
	require.Empty(t, user.Fyers.AccessToken)
	require.Empty(t, user.Fyers.RefreshToken)
}

func TestSetCredentialsValidation(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, "", obscured("secret"), "")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = fx.broker.SetZerodhaCredentials(ctx, fx.userID, obscured("zkey"), "", "")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}
