package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/server/repositories/builds"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
)

// BuildInput carries the writable fields of a build.
type BuildInput struct {
	Title          string
	Game           string
	CharacterClass string
	Body           string
}

func (in *BuildInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if strings.TrimSpace(in.Game) == "" {
		return fmt.Errorf("%w: game is required", common.ErrorValidation)
	}
	if strings.TrimSpace(in.CharacterClass) == "" {
		return fmt.Errorf("%w: character class is required", common.ErrorValidation)
	}
	return nil
}

// BuildService implements CRUD on builds with ownership enforcement.
type BuildService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewBuildService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *BuildService {
	return &BuildService{db: db, repomanager: rm, config: cfg}
}

func (s *BuildService) Create(ctx context.Context, identity *Identity, input BuildInput) (*models.Build, error) {
	if identity == nil {
		return nil, common.ErrorUnauthorized
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	build := &models.Build{
		OwnerID:        identity.UserID,
		Title:          strings.TrimSpace(input.Title),
		Game:           strings.TrimSpace(input.Game),
		CharacterClass: strings.TrimSpace(input.CharacterClass),
		Body:           input.Body,
	}

	return s.repomanager.Builds(s.db).Create(ctx, build)
}

func (s *BuildService) Get(ctx context.Context, id string) (*models.Build, error) {
	return s.repomanager.Builds(s.db).Get(ctx, id)
}

func (s *BuildService) List(ctx context.Context, filter builds.ListFilter) ([]*models.Build, error) {
	return s.repomanager.Builds(s.db).List(ctx, filter)
}

func (s *BuildService) Update(ctx context.Context, identity *Identity, id string, input BuildInput) (*models.Build, error) {
	if identity == nil {
		return nil, common.ErrorUnauthorized
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Builds(s.db)

	build, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if build.OwnerID != identity.UserID {
		return nil, common.ErrorForbidden
	}

	build.Title = strings.TrimSpace(input.Title)
	build.Game = strings.TrimSpace(input.Game)
	build.CharacterClass = strings.TrimSpace(input.CharacterClass)
	build.Body = input.Body

	return repo.Update(ctx, build)
}

func (s *BuildService) Delete(ctx context.Context, identity *Identity, id string) error {
	if identity == nil {
		return common.ErrorUnauthorized
	}

	repo := s.repomanager.Builds(s.db)

	build, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if build.OwnerID != identity.UserID {
		return common.ErrorForbidden
	}

	return repo.Delete(ctx, id)
}
