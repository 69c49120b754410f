package zerodha_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/cryptox"
)

func TestExchangeRequestToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/session/token", r.URL.Path)
		require.Equal(t, "3", r.Header.Get("X-Kite-Version"))
		require.NoError(t, r.ParseForm())

		require.Equal(t, "zkey", r.PostForm.Get("api_key"))
		require.Equal(t, "req-tok", r.PostForm.Get("request_token"))
		require.Equal(t, cryptox.SHA256Hex("zkey"+"req-tok"+"zsecret"), r.PostForm.Get("checksum"))

		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"access_token": "z-access",
				"public_token": "z-public",
				"user_id":      "AB1234",
			},
		})
	}))
	defer srv.Close()

	c := zerodha.NewClient(zerodha.WithBaseURL(srv.URL))
	sess, err := c.ExchangeRequestToken(context.Background(), "zkey", "zsecret", "req-tok")
	require.NoError(t, err)
	require.Equal(t, "z-access", sess.AccessToken)
	require.Equal(t, "z-public", sess.PublicToken)
	require.Equal(t, "AB1234", sess.UserID)
}

func TestExchangeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "Token is invalid or has expired.",
		})
	}))
	defer srv.Close()

	c := zerodha.NewClient(zerodha.WithBaseURL(srv.URL))
	_, err := c.ExchangeRequestToken(context.Background(), "zkey", "zsecret", "stale")
	require.ErrorIs(t, err, zerodha.ErrExchangeRejected)
}

func TestMarginsSendsTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/margins", r.URL.Path)
		require.Equal(t, "token zkey:z-access", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"equity": map[string]any{"enabled": true, "net": 50000.75},
			},
		})
	}))
	defer srv.Close()

	c := zerodha.NewClient(zerodha.WithBaseURL(srv.URL))
	margins, err := c.Margins(context.Background(), "zkey", "z-access")
	require.NoError(t, err)
	require.Contains(t, margins, "equity")
	require.Equal(t, "50000.75", margins["equity"].Net.String())
}

func TestDeadTokenIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := zerodha.NewClient(zerodha.WithBaseURL(srv.URL))
	_, err := c.Margins(context.Background(), "zkey", "dead")
	require.ErrorIs(t, err, zerodha.ErrUnauthorized)
}

func TestBrokerDownIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	c := zerodha.NewClient(zerodha.WithBaseURL(srv.URL))
	_, err := c.Holdings(context.Background(), "zkey", "z-access")
	require.ErrorIs(t, err, zerodha.ErrUnreachable)
}
