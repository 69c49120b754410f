package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/pkg/httpx"
	"github.com/nivesh/brokerlink/pkg/jwtx"
)

// JWKSHandler serves the public signing keys so other services can
// verify identity tokens offline.
type JWKSHandler struct {
	Keys *jwtx.KeySet
}

// ServeHTTP handles key discovery.
//
//	@Summary		Get the JSON Web Key Set
//	@Tags			discovery
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS
//	@Router			/.well-known/jwks.json [get]
func (h *JWKSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.WriteJSON(w, http.StatusOK, jwtx.ExportJWKS(h.Keys))
}
