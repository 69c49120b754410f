// Package zerodha talks to the Kite Connect v3 API: session token
// exchange and portfolio reads.
package zerodha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nivesh/brokerlink/pkg/cryptox"
)

const (
	defaultBaseURL = "https://api.kite.trade"
	kiteVersion    = "3"

	requestTimeout = 10 * time.Second
)

var (
	ErrExchangeRejected = errors.New("zerodha: exchange rejected")
	ErrUnauthorized     = errors.New("zerodha: unauthorized")
	ErrUnreachable      = errors.New("zerodha: broker unreachable")
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeRequestToken trades a request token for a session. Kite
// authenticates the exchange with sha256(apiKey + requestToken + apiSecret).
func (c *Client) ExchangeRequestToken(ctx context.Context, apiKey, apiSecret, requestToken string) (Session, error) {
	form := url.Values{
		"api_key":       {apiKey},
		"request_token": {requestToken},
		"checksum":      {cryptox.SHA256Hex(apiKey + requestToken + apiSecret)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/session/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("zerodha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Kite-Version", kiteVersion)

	var resp sessionResponse
	if err := c.send(req, &resp); err != nil {
		return Session{}, err
	}

	if resp.Status != "success" || resp.Data.AccessToken == "" {
		return Session{}, fmt.Errorf("%w: %s", ErrExchangeRejected, resp.Message)
	}

	return Session{
		AccessToken: resp.Data.AccessToken,
		PublicToken: resp.Data.PublicToken,
		UserID:      resp.Data.UserID,
	}, nil
}

// Margins fetches per-segment margin data, used both for portfolio
// reads and as the token validity probe.
func (c *Client) Margins(ctx context.Context, apiKey, accessToken string) (map[string]Segment, error) {
	var resp marginsResponse
	if err := c.get(ctx, "/user/margins", apiKey, accessToken, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, ErrUnauthorized
	}
	return resp.Data, nil
}

func (c *Client) Positions(ctx context.Context, apiKey, accessToken string) ([]Position, error) {
	var resp positionsResponse
	if err := c.get(ctx, "/portfolio/positions", apiKey, accessToken, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, ErrUnauthorized
	}
	return resp.Data.Net, nil
}

func (c *Client) Holdings(ctx context.Context, apiKey, accessToken string) ([]Holding, error) {
	var resp holdingsResponse
	if err := c.get(ctx, "/portfolio/holdings", apiKey, accessToken, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, ErrUnauthorized
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, path, apiKey, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("zerodha: build request: %w", err)
	}

	req.Header.Set("Authorization", "token "+apiKey+":"+accessToken)
	req.Header.Set("X-Kite-Version", kiteVersion)

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

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnreachable, err)
	}
	return nil
}
