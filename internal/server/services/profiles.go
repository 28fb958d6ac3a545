package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
)

// ProfileInput carries the writable fields of a profile.
type ProfileInput struct {
	DisplayName string
	Bio         string
	AvatarKey   string
}

// ProfileService implements public profile reads and owner updates.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewProfileService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *ProfileService {
	return &ProfileService{db: db, repomanager: rm, config: cfg}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Update upserts the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, identity *Identity, input ProfileInput) (*models.Profile, error) {
	if identity == nil {
		return nil, common.ErrorUnauthorized
	}

	return s.repomanager.Profiles(s.db).Upsert(ctx, &models.Profile{
		UserID:      identity.UserID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Bio:         input.Bio,
		AvatarKey:   input.AvatarKey,
	})
}
