package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type ZerodhaCredentialsRequest struct {
	APIKey       string `json:"api_key,omitempty"`
	APISecret    string `json:"api_secret,omitempty"`
	RequestToken string `json:"request_token,omitempty"`
}

// ZerodhaCredentialsHandler reports the Zerodha link state regardless
// of which provider is currently active.
type ZerodhaCredentialsHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles Zerodha link state reads.
//
//	@Summary		Get Zerodha link state
//	@Tags			broker
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	CredentialsView
//	@Failure		401	{object}	Envelope
//	@Router			/v1/broker/zerodha/credentials [get]
func (h *ZerodhaCredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.Broker.Credentials(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CredentialsView{
		Envelope:       ok(""),
		Provider:       string(user.Provider),
		Configured:     user.Zerodha.Configured(),
		Authorized:     user.Zerodha.Authorized(),
		ClientIDMasked: mask(user.Zerodha.APIKey),
		ClientID:       obscure(user.Zerodha.APIKey),
		SecretKey:      obscure(user.Zerodha.APISecret),
		AccessToken:    user.Zerodha.AccessToken,
		TokenValid:     user.Zerodha.AccessToken != "",
	})
}

// PutZerodhaCredentialsHandler stores Kite Connect credentials and
// optionally exchanges a request token for a session.
type PutZerodhaCredentialsHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles Zerodha credential updates.
//
//	@Summary		Store Zerodha credentials and exchange a request token
//	@Tags			broker
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ZerodhaCredentialsRequest	true	"obscured credentials"
//	@Success		200		{object}	CredentialsView
//	@Failure		400		{object}	Envelope
//	@Failure		409		{object}	Envelope
//	@Failure		502		{object}	Envelope
//	@Router			/v1/broker/zerodha/credentials [put]
func (h *PutZerodhaCredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req ZerodhaCredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.Broker.SetZerodhaCredentials(r.Context(), id, req.APIKey, req.APISecret, req.RequestToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := credentialsView(user)
	view.Message = "credentials saved"
	httpx.WriteJSON(w, http.StatusOK, view)
}
