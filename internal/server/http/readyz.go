package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/store"
)

// ReadyzHandler answers readiness probes by pinging the store.
type ReadyzHandler struct {
	Store store.Store
}

// ServeHTTP handles readiness checks.
//
//	@Summary		Readiness probe
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"ready"
//	@Failure		503	{string}	string	"unavailable"
//	@Router			/readyz [get]
func (h *ReadyzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
