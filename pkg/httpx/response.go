package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxRequestBody caps JSON request bodies. Broker credential payloads
// are small; anything larger is abuse.
const maxRequestBody = 1 << 20 // 1 MiB

var ErrBodyTooLarge = errors.New("httpx: request body too large")

// WriteJSON serialises v with the given status. Serialisation failures
// after headers are flushed can only be logged by the caller's
// middleware, so errors here are swallowed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a size-capped JSON body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("httpx: empty request body")
		}
		return err
	}
	return nil
}
