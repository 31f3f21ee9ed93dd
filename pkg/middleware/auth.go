package middleware

import (
	"net/http"
	"strings"

	"github.com/pecaforte/inventory/pkg/auth"
	"github.com/pecaforte/inventory/pkg/response"
)

// Auth guards mutating routes: it requires a valid bearer token issued by
// the login endpoint. The token is a capability, not an identity — there is
// a single operator role.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w)
			return
		}

		if _, err := auth.ValidateToken(token); err != nil {
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
