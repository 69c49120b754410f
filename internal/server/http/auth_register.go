package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type RegisterRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Name     string `json:"name" example:"Jane Trader"`
	Password string `json:"password" example:"correct horse battery"`
}

type AuthResponse struct {
	Envelope

	Token string   `json:"token,omitempty"`
	User  UserView `json:"user"`
}

// RegisterHandler creates an account and returns its first identity token.
type RegisterHandler struct {
	Auth *service.AuthService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"registration details"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	Envelope
//	@Failure		409		{object}	Envelope
//	@Router			/v1/auth/register [post]
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, token, err := h.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, AuthResponse{
		Envelope: ok("account created"),
		Token:    token,
		User:     userView(user),
	})
}
