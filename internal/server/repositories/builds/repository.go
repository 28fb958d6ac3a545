// Package builds provides persistence for character builds.
package builds

import (
	"context"

	"github.com/avolkau/buildhub/internal/server/models"
)

// ListFilter narrows List results. Zero values mean "no constraint";
// Limit falls back to a server-side default.
type ListFilter struct {
	Game   string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, build *models.Build) (*models.Build, error)
	Get(ctx context.Context, id string) (*models.Build, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Build, error)
	Update(ctx context.Context, build *models.Build) (*models.Build, error)
	Delete(ctx context.Context, id string) error
}
