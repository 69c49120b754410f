package http

import "net/http"

// LivezHandler answers liveness probes.
type LivezHandler struct{}

// ServeHTTP handles liveness checks.
//
//	@Summary		Liveness probe
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"ok"
//	@Router			/livez [get]
func (h *LivezHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
