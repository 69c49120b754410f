package http

import (
	"net/http"
	"strings"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/httpx"
	"github.com/nivesh/brokerlink/pkg/idx"
)

// UserView is the public shape of an account. Secrets never appear here.
type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
	Provider string `json:"provider,omitempty"`
}

func userView(u domain.User) UserView {
	return UserView{
		ID:       u.ID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Verified: u.Verified,
		Provider: string(u.Provider),
	}
}

// CredentialsView reports link state back to the account owner. App
// credentials travel base64-obscured, same as they arrive; tokens are
// echoed plain so the client can reconcile its own copy. The masked
// client ID is a display hint for the UI.
type CredentialsView struct {
	Envelope

	Provider       string `json:"provider"`
	Configured     bool   `json:"configured"`
	Authorized     bool   `json:"authorized"`
	ClientIDMasked string `json:"client_id_masked,omitempty"`

	ClientID     string `json:"client_id,omitempty"`
	SecretKey    string `json:"secret_key,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenValid   bool   `json:"token_valid"`
}

func credentialsView(u domain.User) CredentialsView {
	view := CredentialsView{
		Envelope: ok(""),
		Provider: string(u.Provider),
	}

	switch u.Provider {
	case domain.ProviderZerodha:
		view.Configured = u.Zerodha.Configured()
		view.Authorized = u.Zerodha.Authorized()
		view.ClientIDMasked = mask(u.Zerodha.APIKey)
		view.ClientID = obscure(u.Zerodha.APIKey)
		view.SecretKey = obscure(u.Zerodha.APISecret)
		view.AccessToken = u.Zerodha.AccessToken
		view.TokenValid = u.Zerodha.AccessToken != ""
	default:
		view.Configured = u.Fyers.Configured()
		view.Authorized = u.Fyers.Authorized()
		view.ClientIDMasked = mask(u.Fyers.ClientID)
		view.ClientID = obscure(u.Fyers.ClientID)
		view.SecretKey = obscure(u.Fyers.SecretKey)
		view.AccessToken = u.Fyers.AccessToken
		view.RefreshToken = u.Fyers.RefreshToken
		view.TokenValid = u.Fyers.AccessToken != ""
	}
	return view
}

// obscure base64-encodes non-empty values for transit, matching the
// shape the save endpoints accept.
func obscure(s string) string {
	if s == "" {
		return ""
	}
	return cryptox.ObscureText(s)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// identityID pulls the authenticated user ID out of the request
// context. RequireAuth guarantees presence; a parse failure means the
// token subject was malformed.
func identityID(r *http.Request) (idx.ID, bool) {
	claims, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		return idx.Zero, false
	}
	id, err := idx.Parse(claims.Subject)
	if err != nil {
		return idx.Zero, false
	}
	return id, true
}
