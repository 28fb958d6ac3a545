package likes

import (
	"context"
	"fmt"

	"github.com/avolkau/buildhub/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, buildID, userID string) error {
	query :=
		`INSERT INTO likes (build_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (build_id, user_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, buildID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, buildID, userID string) error {
	query :=
		`DELETE FROM likes
		 WHERE build_id = $1 AND user_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, buildID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context, buildID string) (int64, error) {
	query :=
		`SELECT count(*) FROM likes
		 WHERE build_id = $1
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, buildID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
