package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"tenantdash/pkg/auth"
	"tenantdash/pkg/session"

	"github.com/gorilla/mux"
)

var (
	noSessUrls = map[string]string{
		"/api/login":    http.MethodPost,
		"/api/register": http.MethodPost,
		"/api/logout":   http.MethodPost,
	}
)

type Authenticator interface {
	Authenticate(r *http.Request) (*session.Session, error)
}

// CheckJWT puts the caller's session into the request context. Routes in
// noSessUrls are served without one, but still get it attached when the
// request carries a live token.
func CheckJWT(authenticator Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}
			template, err := route.GetPathTemplate()
			if err != nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}

			s, err := authenticator.Authenticate(r)

			if method, ok := noSessUrls[template]; ok && method == r.Method {
				if err == nil {
					r = r.WithContext(session.NewContext(r.Context(), s))
				}
				next.ServeHTTP(w, r)
				return
			}

			if err != nil {
				if !errors.Is(err, auth.ErrNoToken) {
					logger.Warn("unauthorized", "path", r.URL.Path, "error", err)
				}
				http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
