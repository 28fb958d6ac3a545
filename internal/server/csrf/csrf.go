// Package csrf implements a stateless double-submit anti-forgery guard.
// A random value is wrapped in a signed token that travels twice: in an
// HTTP-only cookie set by the server and in a request header echoed by the
// client. A state-changing request is accepted only when both tokens verify
// and carry the same value, so a forged cross-site request, which cannot
// read the cookie, cannot produce the matching header.
package csrf

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/token"
)

// Claims wraps the random anti-forgery value in registered time claims.
type Claims struct {
	jwt.RegisteredClaims
	Value string `json:"val"`
}

// Guard issues and checks anti-forgery tokens.
type Guard struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
}

func NewGuard(secret []byte, ttl time.Duration, secureCookies bool) *Guard {
	return &Guard{secret: secret, ttl: ttl, secureCookies: secureCookies}
}

// Issue generates a fresh token, sets it as the anti-forgery cookie, and
// returns the same token for the client to echo in the request header.
// Each issuance overwrites the previous cookie.
func (g *Guard) Issue(w http.ResponseWriter) (string, error) {
	if len(g.secret) == 0 {
		return "", common.ErrorConfiguration
	}

	value, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}

	signed, err := token.Sign(&Claims{
		RegisteredClaims: token.StandardClaims(g.ttl),
		Value:            value,
	}, g.secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.CSRFCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	return signed, nil
}

// Check validates the double-submit pair on r. Safe methods always pass.
// For state-changing methods it fails closed with common.ErrorForbidden
// when the cookie or header is absent, either token fails verification, or
// the embedded values differ.
func (g *Guard) Check(r *http.Request) error {
	if isSafeMethod(r.Method) {
		return nil
	}

	cookie, err := r.Cookie(common.CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return common.ErrorForbidden
	}

	echoed := r.Header.Get(common.CSRFHeaderName)
	if echoed == "" {
		return common.ErrorForbidden
	}

	cookieClaims := &Claims{}
	if err := token.Verify(cookie.Value, g.secret, cookieClaims); err != nil {
		return common.ErrorForbidden
	}

	headerClaims := &Claims{}
	if err := token.Verify(echoed, g.secret, headerClaims); err != nil {
		return common.ErrorForbidden
	}

	if subtle.ConstantTimeCompare([]byte(cookieClaims.Value), []byte(headerClaims.Value)) != 1 {
		return common.ErrorForbidden
	}

	return nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
