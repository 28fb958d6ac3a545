package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/dbx"
	"github.com/avolkau/buildhub/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT user_id, display_name, bio, avatar_key, updated_at
		 FROM profiles
		 WHERE user_id = $1
		 `

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&profile.UserID, &profile.DisplayName, &profile.Bio, &profile.AvatarKey, &profile.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (user_id, display_name, bio, avatar_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET display_name = $2, bio = $3, avatar_key = $4, updated_at = now()
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.DisplayName, profile.Bio, profile.AvatarKey).
		Scan(&profile.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}
