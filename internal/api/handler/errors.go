package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/gamenight/internal/api/apierr"
)

// maxBodyBytes caps request bodies; the largest is a match with its roster
const maxBodyBytes = 64 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeBody reads a JSON request body into dst. On failure it writes
// INVALID_REQUEST and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}
