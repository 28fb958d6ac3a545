// Package likes provides persistence for build likes.
package likes

import "context"

type Repository interface {
	// Add records a like; adding an existing like is a no-op.
	Add(ctx context.Context, buildID, userID string) error
	// Remove deletes a like; removing an absent like is a no-op.
	Remove(ctx context.Context, buildID, userID string) error
	Count(ctx context.Context, buildID string) (int64, error)
}
