package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type VerifyAccountRequest struct {
	Email string `json:"email" example:"jane@example.com"`
}

// VerifyAccountHandler flags an account as verified. The route is
// unauthenticated so an operator or an email-link callback can hit it,
// and sits behind the strictest rate limit.
type VerifyAccountHandler struct {
	Auth *service.AuthService
}

// ServeHTTP handles account verification.
//
//	@Summary		Mark an account as verified
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyAccountRequest	true	"account email"
//	@Success		200		{object}	Envelope
//	@Failure		404		{object}	Envelope
//	@Router			/v1/auth/verify-account [post]
func (h *VerifyAccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.Auth.MarkVerified(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ok("account verified"))
}
