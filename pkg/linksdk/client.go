package linksdk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin typed wrapper over the service's HTTP API. Secrets
// passed to credential calls are obscured for transit automatically.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken attaches an identity token to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", req, &out)
	return out, err
}

func (c *Client) Verify(ctx context.Context) (VerifyResponse, error) {
	var out VerifyResponse
	err := c.do(ctx, http.MethodGet, "/v1/auth/verify", nil, &out)
	return out, err
}

func (c *Client) VerifyAccount(ctx context.Context, email string) (Envelope, error) {
	var out Envelope
	err := c.do(ctx, http.MethodPost, "/v1/auth/verify-account", map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) GetCredentials(ctx context.Context) (CredentialsView, error) {
	var out CredentialsView
	err := c.do(ctx, http.MethodGet, "/v1/broker/credentials", nil, &out)
	return out, err
}

// PutFyersCredentials stores Fyers credentials, obscuring secrets for
// transit, and triggers an auth-code exchange when one is supplied.
func (c *Client) PutFyersCredentials(ctx context.Context, req FyersCredentialsRequest) (CredentialsView, error) {
	req.ClientID = obscure(req.ClientID)
	req.SecretKey = obscure(req.SecretKey)

	var out CredentialsView
	err := c.do(ctx, http.MethodPut, "/v1/broker/credentials", req, &out)
	return out, err
}

func (c *Client) PutZerodhaCredentials(ctx context.Context, req ZerodhaCredentialsRequest) (CredentialsView, error) {
	req.APIKey = obscure(req.APIKey)
	req.APISecret = obscure(req.APISecret)

	var out CredentialsView
	err := c.do(ctx, http.MethodPut, "/v1/broker/zerodha/credentials", req, &out)
	return out, err
}

func (c *Client) ValidateTokens(ctx context.Context) (ValidateResponse, error) {
	var out ValidateResponse
	err := c.do(ctx, http.MethodPost, "/v1/broker/validate", nil, &out)
	return out, err
}

func (c *Client) ClearTokens(ctx context.Context) (Envelope, error) {
	var out Envelope
	err := c.do(ctx, http.MethodPost, "/v1/broker/clear-tokens", nil, &out)
	return out, err
}

func (c *Client) Verification(ctx context.Context) (VerificationResponse, error) {
	var out VerificationResponse
	err := c.do(ctx, http.MethodGet, "/v1/broker/verification", nil, &out)
	return out, err
}

func (c *Client) Funds(ctx context.Context) (FundsResponse, error) {
	var out FundsResponse
	err := c.do(ctx, http.MethodGet, "/v1/portfolio/funds", nil, &out)
	return out, err
}

func (c *Client) Positions(ctx context.Context) (PositionsResponse, error) {
	var out PositionsResponse
	err := c.do(ctx, http.MethodGet, "/v1/portfolio/positions", nil, &out)
	return out, err
}

func (c *Client) Holdings(ctx context.Context) (HoldingsResponse, error) {
	var out HoldingsResponse
	err := c.do(ctx, http.MethodGet, "/v1/portfolio/holdings", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("linksdk: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("linksdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("linksdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("linksdk: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env Envelope
		_ = json.Unmarshal(raw, &env)
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("linksdk: decode response: %w", err)
	}
	return nil
}

func obscure(s string) string {
	if s == "" {
		return s
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}
