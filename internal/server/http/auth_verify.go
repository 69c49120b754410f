package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type VerifyResponse struct {
	Envelope

	User UserView `json:"user"`
}

// VerifyHandler validates the bearer token and returns the current
// account state.
type VerifyHandler struct {
	Auth *service.AuthService
}

// ServeHTTP handles token verification.
//
//	@Summary		Validate the identity token
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	VerifyResponse
//	@Failure		401	{object}	Envelope
//	@Router			/v1/auth/verify [get]
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.Auth.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, VerifyResponse{
		Envelope: ok(""),
		User:     userView(user),
	})
}
