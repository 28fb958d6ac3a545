// Package profiles provides persistence for public user profiles.
package profiles

import (
	"context"

	"github.com/avolkau/buildhub/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates the profile on first write and replaces it afterwards.
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}
