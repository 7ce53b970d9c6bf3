package web

import (
	"crypto/hmac"
	"net/http"
	"strings"
)

const scheduleSecretHeader = "X-Schedule-Secret"

// scheduleAuthMiddleware guards the cron trigger endpoint. The caller
// presents the shared secret either in X-Schedule-Secret or as a bearer
// token (the form trusted-platform schedulers emit). Missing credential
// is 401, wrong credential 403.
func scheduleAuthMiddleware(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get(scheduleSecretHeader)
		if presented == "" {
			if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
				presented = strings.TrimPrefix(bearer, "Bearer ")
			}
		}

		if presented == "" {
			http.Error(w, "missing schedule credential", http.StatusUnauthorized)
			return
		}
		if secret == "" || !hmac.Equal([]byte(presented), []byte(secret)) {
			http.Error(w, "invalid schedule credential", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}
