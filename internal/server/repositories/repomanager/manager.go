// Package repomanager vends repository implementations bound to a database
// handle, so services can run any repository against either *sql.DB or a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkau/buildhub/internal/dbx"
	"github.com/avolkau/buildhub/internal/server/repositories/builds"
	"github.com/avolkau/buildhub/internal/server/repositories/comments"
	"github.com/avolkau/buildhub/internal/server/repositories/likes"
	"github.com/avolkau/buildhub/internal/server/repositories/profiles"
	"github.com/avolkau/buildhub/internal/server/repositories/refreshtokens"
	"github.com/avolkau/buildhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Builds(db dbx.DBTX) builds.Repository
	Comments(db dbx.DBTX) comments.Repository
	Likes(db dbx.DBTX) likes.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
