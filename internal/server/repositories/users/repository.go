// Package users provides persistence for locally provisioned user records.
package users

import (
	"context"

	"github.com/avolkau/buildhub/internal/server/models"
)

// Repository describes storage operations on user records.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPrimaryID(ctx context.Context, primaryID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
