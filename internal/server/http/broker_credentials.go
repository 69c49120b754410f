package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type FyersCredentialsRequest struct {
	// ClientID and SecretKey arrive base64-obscured; plain values are
	// accepted for backwards compatibility. Omitted fields keep the
	// stored values, so a consent-page return can carry just the code.
	ClientID  string `json:"client_id,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	AuthCode  string `json:"auth_code,omitempty"`
}

// CredentialsHandler reads the current broker link state.
type CredentialsHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles link state reads.
//
//	@Summary		Get broker link state
//	@Tags			broker
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	CredentialsView
//	@Failure		401	{object}	Envelope
//	@Router			/v1/broker/credentials [get]
func (h *CredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	httpx.WriteJSON(w, http.StatusOK, credentialsView(user))
}

// PutCredentialsHandler stores Fyers credentials and optionally runs
// the auth-code exchange.
type PutCredentialsHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles credential updates.
//
//	@Summary		Store Fyers credentials and exchange an auth code
//	@Tags			broker
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		FyersCredentialsRequest	true	"obscured credentials"
//	@Success		200		{object}	CredentialsView
//	@Failure		400		{object}	Envelope
//	@Failure		409		{object}	Envelope
//	@Failure		502		{object}	Envelope
//	@Router			/v1/broker/credentials [put]
func (h *PutCredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req FyersCredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.Broker.SetFyersCredentials(r.Context(), id, req.ClientID, req.SecretKey, req.AuthCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := credentialsView(user)
	view.Message = "credentials saved"
	httpx.WriteJSON(w, http.StatusOK, view)
}
