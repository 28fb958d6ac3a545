package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/services"
)

type ctxKey int

const identityKey ctxKey = iota

// identityFrom returns the authenticated identity attached to ctx, or nil
// for an anonymous request.
func identityFrom(ctx context.Context) *services.Identity {
	id, _ := ctx.Value(identityKey).(*services.Identity)
	return id
}

// bearerToken extracts the session token from the Authorization header or,
// failing that, the session cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get(common.AuthHeaderName); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
	}
	if cookie, err := r.Cookie(common.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// authMiddleware resolves the caller's identity when a session token is
// presented. It never rejects: anonymous requests proceed with a nil
// identity and handlers that need one fail with 401 on their own.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenString := bearerToken(r); tokenString != "" {
			if identity, err := s.users.Authenticate(tokenString); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// csrfMiddleware enforces the double-submit check on every request. Safe
// methods pass through inside the guard.
func (s *Server) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.guard.Check(r); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireIdentity rejects anonymous requests before the handler runs.
func (s *Server) requireIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r.Context()) == nil {
			writeError(w, common.ErrorUnauthorized)
			return
		}
		next(w, r)
	}
}
