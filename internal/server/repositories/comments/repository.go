// Package comments provides persistence for build comments.
package comments

import (
	"context"

	"github.com/avolkau/buildhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	ListByBuild(ctx context.Context, buildID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
