// Package token is the signed-token primitive shared by the CSRF guard,
// session auth, and the delegated storage-token issuer. Tokens are compact
// HS256 JWTs; validity is carried entirely in the registered time claims,
// so verification needs only the shared secret and a clock.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkau/buildhub/internal/common"
)

// now is a seam so tests can simulate clock advance for expiry checks.
var now = time.Now

// StandardClaims returns registered time claims for a token valid for ttl:
// iat and nbf at the current time, exp at now+ttl. All fields are
// second-granularity Unix timestamps; a token is expired at exactly exp.
func StandardClaims(ttl time.Duration) jwt.RegisteredClaims {
	n := now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(n),
		NotBefore: jwt.NewNumericDate(n),
		ExpiresAt: jwt.NewNumericDate(n.Add(ttl)),
	}
}

// Sign encodes claims into a compact token signed with the shared secret.
func Sign(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses tokenString into claims and checks signature and time
// window. Failures map to the shared sentinels: common.ErrTokenExpired,
// common.ErrTokenNotYetValid, and common.ErrInvalidToken for signature or
// encoding problems.
func Verify(tokenString string, secret []byte, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now() }),
		jwt.WithIssuedAt(),
	)

	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return common.ErrTokenNotYetValid
	default:
		return common.ErrInvalidToken
	}

	if !parsed.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
