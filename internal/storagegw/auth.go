package storagegw

import (
	"fmt"
	"path"
	"strings"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/services"
	"github.com/avolkau/buildhub/internal/token"
)

// verifyDelegatedToken checks a delegated-access token and returns its
// claims. The token must be signed with the shared storage secret, carry
// the expected audience and issuer, and still be within its lifetime.
func verifyDelegatedToken(tokenString string, secret []byte) (*services.StorageClaims, error) {
	claims := &services.StorageClaims{}
	if err := token.Verify(tokenString, secret, claims); err != nil {
		return nil, common.ErrorUnauthorized
	}

	audOK := false
	for _, aud := range claims.Audience {
		if aud == services.StorageTokenAudience {
			audOK = true
			break
		}
	}
	if !audOK || claims.Issuer != services.StorageTokenIssuer {
		return nil, common.ErrorUnauthorized
	}

	if claims.Subject == "" {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}

// scopedKey maps a client-chosen object name into the caller's private
// prefix. Names that escape the prefix are rejected.
func scopedKey(subject, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: object name is required", common.ErrorValidation)
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") || strings.Contains(name, "\\") {
		return "", fmt.Errorf("%w: invalid object name", common.ErrorValidation)
	}

	cleaned := path.Clean(name)
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: invalid object name", common.ErrorValidation)
	}

	return "users/" + subject + "/" + cleaned, nil
}
