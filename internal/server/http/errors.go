package http

import (
	"errors"
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
	"github.com/nivesh/brokerlink/pkg/slogx"
)

// Envelope is the uniform response wrapper. Success responses embed it
// alongside their payload fields.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok(msg string) Envelope { return Envelope{Success: true, Message: msg} }

func writeError(w http.ResponseWriter, status int, msg string) {
	httpx.WriteJSON(w, status, Envelope{Success: false, Message: msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. Unknown
// errors become opaque 500s; details go to the log, not the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, service.ErrUnverified):
		writeError(w, http.StatusForbidden, "account not verified")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrAuthCodeUsed):
		writeError(w, http.StatusConflict, "auth code already used")
	case errors.Is(err, service.ErrBrokerNotConfigured):
		writeError(w, http.StatusBadRequest, "broker credentials not configured")
	case errors.Is(err, service.ErrBrokerNotAuthorized):
		writeError(w, http.StatusConflict, "broker session not authorized")
	case errors.Is(err, service.ErrBrokerRejected):
		writeError(w, http.StatusBadRequest, "broker rejected the request")
	case errors.Is(err, service.ErrBrokerUnavailable):
		writeError(w, http.StatusBadGateway, "broker unavailable")
	default:
		slogx.FromContext(r.Context()).Error("internal_error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
