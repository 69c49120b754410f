package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type ValidateResponse struct {
	Envelope

	Valid bool `json:"valid"`
}

// ValidateHandler probes the broker with the stored session. Rejected
// sessions are cleared server-side before the response goes out.
type ValidateHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles session validation.
//
//	@Summary		Validate the stored broker session
//	@Tags			broker
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ValidateResponse
//	@Failure		502	{object}	Envelope
//	@Router			/v1/broker/validate [post]
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	valid, err := h.Broker.Validate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg := "session valid"
	if !valid {
		msg = "session invalid, stored tokens cleared"
	}

	httpx.WriteJSON(w, http.StatusOK, ValidateResponse{
		Envelope: ok(msg),
		Valid:    valid,
	})
}
