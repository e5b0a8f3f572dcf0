package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"creditrust/handler/render"

	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HandleAuthentication writes need the bearer token, reads stay open. An
// empty token turns the check off.
func HandleAuthentication(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if token == "" || readOnly(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			accessToken := getBearerToken(r)
			if accessToken == "" {
				render.Error(w, twirp.NewError(twirp.Unauthenticated, "bearer token required"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(accessToken), []byte(token)) != 1 {
				logger.FromContext(r.Context()).Debugln("bad bearer token for", r.Method, r.URL.Path)
				render.Error(w, twirp.NewError(twirp.PermissionDenied, "bad bearer token"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func readOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	return false
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	if !strings.HasPrefix(s, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
}
