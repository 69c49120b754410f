package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type VerificationResponse struct {
	Envelope

	Status       string `json:"status"`
	Detail       string `json:"detail,omitempty"`
	AuthorizeURL string `json:"authorize_url,omitempty"`
}

// VerificationHandler reports where the account sits in the broker
// link workflow.
type VerificationHandler struct {
	Verification *service.VerificationService
}

// ServeHTTP handles workflow status reads.
//
//	@Summary		Get broker link verification status
//	@Tags			broker
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	VerificationResponse
//	@Failure		401	{object}	Envelope
//	@Router			/v1/broker/verification [get]
func (h *VerificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	state, err := h.Verification.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, VerificationResponse{
		Envelope:     ok(""),
		Status:       string(state.Status),
		Detail:       state.Detail,
		AuthorizeURL: state.AuthorizeURL,
	})
}
