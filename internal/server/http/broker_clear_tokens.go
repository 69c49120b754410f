package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

// ClearTokensHandler drops stored broker sessions for the caller,
// keeping app credentials intact.
type ClearTokensHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles token clearing.
//
//	@Summary		Clear stored broker sessions
//	@Tags			broker
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	Envelope
//	@Failure		401	{object}	Envelope
//	@Router			/v1/broker/clear-tokens [post]
func (h *ClearTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Broker.ClearTokens(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ok("broker tokens cleared"))
}
