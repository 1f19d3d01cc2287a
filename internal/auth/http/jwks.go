package http

import (
	"net/http"

	"github.com/website-kz/sentinel/pkg/httpx"
	"github.com/website-kz/sentinel/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set so clients can verify session
// tokens offline.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.JWKS())
	}
}
