package builds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/dbx"
	"github.com/avolkau/buildhub/internal/server/models"
)

const defaultListLimit = 20

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, build *models.Build) (*models.Build, error) {

	query :=
		`INSERT INTO builds (owner_id, title, game, character_class, body)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		build.OwnerID, build.Title, build.Game, build.CharacterClass, build.Body).
		Scan(&build.ID, &build.CreatedAt, &build.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return build, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Build, error) {
	query :=
		`SELECT id, owner_id, title, game, character_class, body, created_at, updated_at
		 FROM builds
		 WHERE id = $1
		 `

	build := &models.Build{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&build.ID, &build.OwnerID, &build.Title, &build.Game,
			&build.CharacterClass, &build.Body, &build.CreatedAt, &build.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return build, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Build, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query :=
		`SELECT id, owner_id, title, game, character_class, body, created_at, updated_at
		 FROM builds
		 WHERE ($1 = '' OR game = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, filter.Game, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Build
	for rows.Next() {
		build := &models.Build{}
		if err := rows.Scan(&build.ID, &build.OwnerID, &build.Title, &build.Game,
			&build.CharacterClass, &build.Body, &build.CreatedAt, &build.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, build)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, build *models.Build) (*models.Build, error) {
	query :=
		`UPDATE builds
		 SET title = $2, game = $3, character_class = $4, body = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		build.ID, build.Title, build.Game, build.CharacterClass, build.Body).
		Scan(&build.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return build, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM builds
		 WHERE id = $1
		 `

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
