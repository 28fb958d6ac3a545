package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
	"github.com/avolkau/buildhub/internal/token"
)

// Fixed claim constants the storage gateway verifies against.
const (
	StorageTokenIssuer   = "buildhub"
	StorageTokenAudience = "buildhub-storage"
	StorageTokenRole     = "authenticated"
)

// subjectNamespace fixes the UUIDv5 namespace for subject derivation.
// Rotating it would orphan every object stored under previously derived
// subjects, so it must never change for a live deployment.
var subjectNamespace = uuid.MustParse("8f1f9a64-21c5-49a8-9d5c-2f4f6c1d73ae")

// DeriveSubject maps a primary identifier to the stable pseudonymous
// subject the storage gateway keys objects by. Same input, same output;
// distinct inputs never collide in practice.
func DeriveSubject(primaryID string) string {
	return uuid.NewSHA1(subjectNamespace, []byte(primaryID)).String()
}

// StorageClaims is the payload of a delegated-access token.
type StorageClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	Email     string `json:"email"`
	PrimaryID string `json:"pid"`
	RecordID  string `json:"uid"`
}

// StorageTokenService mints short-lived credentials the storage gateway
// accepts as proof of identity. Issuance is stateless and cheap; clients
// re-mint on a timer shorter than the token lifetime.
type StorageTokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewStorageTokenService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *StorageTokenService {
	return &StorageTokenService{db: db, repomanager: rm, config: cfg}
}

// Issue mints a delegated-access token for the authenticated caller.
// A nil identity fails with ErrorUnauthorized before any store lookup;
// a caller without a provisioned record fails with ErrorNotFound; a
// missing signing secret is a fatal ErrorConfiguration.
func (s *StorageTokenService) Issue(ctx context.Context, identity *Identity) (string, error) {
	if identity == nil {
		return "", common.ErrorUnauthorized
	}
	if s.config.StorageSecret == "" {
		return "", fmt.Errorf("%w: storage secret is not set", common.ErrorConfiguration)
	}

	user, err := s.repomanager.Users(s.db).GetByPrimaryID(ctx, identity.PrimaryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	subject := DeriveSubject(user.PrimaryID)

	registered := token.StandardClaims(s.config.StorageTokenValidityDuration)
	registered.Subject = subject
	registered.Issuer = StorageTokenIssuer
	registered.Audience = jwt.ClaimStrings{StorageTokenAudience}
	// Uniqueness signal for the downstream verifier, not a strict dedup.
	registered.ID = fmt.Sprintf("%s-%d", subject, registered.IssuedAt.Unix())

	signed, err := token.Sign(&StorageClaims{
		RegisteredClaims: registered,
		Role:             StorageTokenRole,
		Email:            user.Email,
		PrimaryID:        user.PrimaryID,
		RecordID:         user.ID,
	}, []byte(s.config.StorageSecret))
	if err != nil {
		return "", common.ErrorInternal
	}

	return signed, nil
}
