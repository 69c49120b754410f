// Package fyers talks to the Fyers v3 trading API: auth-code exchange
// and portfolio reads.
package fyers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nivesh/brokerlink/pkg/cryptox"
)

const (
	defaultAuthBaseURL = "https://api-t1.fyers.in/api/v3"
	defaultDataBaseURL = "https://api-t1.fyers.in/api/v3"

	requestTimeout = 10 * time.Second
)

var (
	// ErrExchangeRejected means the broker answered but refused the
	// auth code or credentials.
	ErrExchangeRejected = errors.New("fyers: exchange rejected")

	// ErrUnauthorized means a stored access token is expired or revoked.
	ErrUnauthorized = errors.New("fyers: unauthorized")

	// ErrUnreachable covers transport failures and non-JSON answers.
	ErrUnreachable = errors.New("fyers: broker unreachable")
)

type Client struct {
	authBaseURL string
	dataBaseURL string
	http        *http.Client
}

type Option func(*Client)

// WithBaseURL points both auth and data calls at one host, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.authBaseURL = u
		c.dataBaseURL = u
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		authBaseURL: defaultAuthBaseURL,
		dataBaseURL: defaultDataBaseURL,
		http:        &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthorizeURL builds the consent page URL the user visits to obtain
// an auth code.
func (c *Client) AuthorizeURL(clientID, redirectURI, state string) string {
	q := url.Values{
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"state":         {state},
	}
	return c.authBaseURL + "/generate-authcode?" + q.Encode()
}

// ExchangeAuthCode trades a one-time auth code for a token pair. The
// request is signed with sha256(clientID:secretKey). Success requires
// s="ok", code=200 and a non-empty access token together; anything less
// is ErrExchangeRejected.
func (c *Client) ExchangeAuthCode(ctx context.Context, clientID, secretKey, authCode string) (Tokens, error) {
	body := exchangeRequest{
		GrantType: "authorization_code",
		AppIDHash: cryptox.SHA256Hex(clientID + ":" + secretKey),
		Code:      authCode,
	}

	var resp exchangeResponse
	if err := c.postJSON(ctx, c.authBaseURL+"/validate-authcode", body, &resp); err != nil {
		return Tokens{}, err
	}

	if !resp.ok() || resp.AccessToken == "" {
		return Tokens{}, fmt.Errorf("%w: %s (code %d)", ErrExchangeRejected, resp.Message, resp.Code)
	}
	return Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Funds fetches the fund limits report. A rejected token maps to
// ErrUnauthorized so callers can invalidate stored credentials.
func (c *Client) Funds(ctx context.Context, clientID, accessToken string) ([]FundLimit, error) {
	var resp fundsResponse
	if err := c.getJSON(ctx, c.dataBaseURL+"/funds", clientID, accessToken, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(resp.apiStatus)
	}
	return resp.FundLimit, nil
}

func (c *Client) Positions(ctx context.Context, clientID, accessToken string) ([]Position, error) {
	var resp positionsResponse
	if err := c.getJSON(ctx, c.dataBaseURL+"/positions", clientID, accessToken, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(resp.apiStatus)
	}
	return resp.NetPositions, nil
}

func (c *Client) Holdings(ctx context.Context, clientID, accessToken string) ([]Holding, error) {
	var resp holdingsResponse
	if err := c.getJSON(ctx, c.dataBaseURL+"/holdings", clientID, accessToken, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(resp.apiStatus)
	}
	return resp.Holdings, nil
}

func (c *Client) postJSON(ctx context.Context, url string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("fyers: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("fyers: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

func (c *Client) getJSON(ctx context.Context, url, clientID, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("fyers: build request: %w", err)
	}

	// Fyers expects "appId:token", not a Bearer scheme.
	req.Header.Set("Authorization", clientID+":"+accessToken)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnreachable, err)
	}
	return nil
}

// statusError classifies a non-ok envelope on an HTTP 200 answer.
// Fyers signals auth failures in-band with these codes.
func statusError(st apiStatus) error {
	switch st.Code {
	case -16, -17, 401:
		return ErrUnauthorized
	default:
		return fmt.Errorf("%w: %s (code %d)", ErrExchangeRejected, st.Message, st.Code)
	}
}
