package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type LoginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password"`
}

// LoginHandler authenticates an account and mints an identity token.
type LoginHandler struct {
	Auth *service.AuthService
}

// ServeHTTP handles login.
//
//	@Summary		Log in with email and password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"login details"
//	@Success		200		{object}	AuthResponse
//	@Failure		401		{object}	Envelope
//	@Failure		403		{object}	Envelope
//	@Router			/v1/auth/login [post]
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		Envelope: ok("logged in"),
		Token:    token,
		User:     userView(user),
	})
}
