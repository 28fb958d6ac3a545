package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
)

// SocialService implements comments and likes on builds.
type SocialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewSocialService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *SocialService {
	return &SocialService{db: db, repomanager: rm, config: cfg}
}

func (s *SocialService) AddComment(ctx context.Context, identity *Identity, buildID, body string) (*models.Comment, error) {
	if identity == nil {
		return nil, common.ErrorUnauthorized
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: comment body is required", common.ErrorValidation)
	}

	// The build must exist; a dangling comment is a 404, not an FK error.
	if _, err := s.repomanager.Builds(s.db).Get(ctx, buildID); err != nil {
		return nil, err
	}

	return s.repomanager.Comments(s.db).Create(ctx, &models.Comment{
		BuildID:  buildID,
		AuthorID: identity.UserID,
		Body:     strings.TrimSpace(body),
	})
}

func (s *SocialService) ListComments(ctx context.Context, buildID string) ([]*models.Comment, error) {
	return s.repomanager.Comments(s.db).ListByBuild(ctx, buildID)
}

func (s *SocialService) DeleteComment(ctx context.Context, identity *Identity, commentID string) error {
	if identity == nil {
		return common.ErrorUnauthorized
	}

	repo := s.repomanager.Comments(s.db)

	comment, err := repo.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != identity.UserID {
		return common.ErrorForbidden
	}

	return repo.Delete(ctx, commentID)
}

// Like records a like; liking twice is a no-op.
func (s *SocialService) Like(ctx context.Context, identity *Identity, buildID string) error {
	if identity == nil {
		return common.ErrorUnauthorized
	}
	if _, err := s.repomanager.Builds(s.db).Get(ctx, buildID); err != nil {
		return err
	}
	return s.repomanager.Likes(s.db).Add(ctx, buildID, identity.UserID)
}

// Unlike removes a like; removing an absent like is a no-op.
func (s *SocialService) Unlike(ctx context.Context, identity *Identity, buildID string) error {
	if identity == nil {
		return common.ErrorUnauthorized
	}
	return s.repomanager.Likes(s.db).Remove(ctx, buildID, identity.UserID)
}

func (s *SocialService) LikeCount(ctx context.Context, buildID string) (int64, error) {
	return s.repomanager.Likes(s.db).Count(ctx, buildID)
}
