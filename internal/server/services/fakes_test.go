package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avolkau/buildhub/internal/dbx"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/models"
	buildsrepo "github.com/avolkau/buildhub/internal/server/repositories/builds"
	commentsrepo "github.com/avolkau/buildhub/internal/server/repositories/comments"
	likesrepo "github.com/avolkau/buildhub/internal/server/repositories/likes"
	profilesrepo "github.com/avolkau/buildhub/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/avolkau/buildhub/internal/server/repositories/refreshtokens"
	usersrepo "github.com/avolkau/buildhub/internal/server/repositories/users"
)

// --- helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionSecret = "session-secret"
	cfg.CSRFSecret = "csrf-secret"
	cfg.StorageSecret = "storage-secret"
	return cfg
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut  *models.User
	getErr  error
	getKeys []string // primary ids / emails / ids passed to lookups
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "created-id"
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.getKeys = append(f.getKeys, id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByPrimaryID(ctx context.Context, primaryID string) (*models.User, error) {
	f.getKeys = append(f.getKeys, primaryID)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.getKeys = append(f.getKeys, email)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	created   []string
	createErr error

	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.created = append(f.created, token)
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

type fakeBuildsRepo struct {
	createOut *models.Build
	createErr error

	getOut *models.Build
	getErr error

	listOut []*models.Build
	listErr error

	updateOut *models.Build
	updateErr error

	deleted   []string
	deleteErr error
}

func (f *fakeBuildsRepo) Create(ctx context.Context, b *models.Build) (*models.Build, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	b.ID = "build-id"
	return b, nil
}

func (f *fakeBuildsRepo) Get(ctx context.Context, id string) (*models.Build, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeBuildsRepo) List(ctx context.Context, filter buildsrepo.ListFilter) ([]*models.Build, error) {
	return f.listOut, f.listErr
}

func (f *fakeBuildsRepo) Update(ctx context.Context, b *models.Build) (*models.Build, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return b, nil
}

func (f *fakeBuildsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeCommentsRepo struct {
	createOut *models.Comment
	createErr error

	getOut *models.Comment
	getErr error

	listOut []*models.Comment
	listErr error

	deleted   []string
	deleteErr error
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	c.ID = "comment-id"
	return c, nil
}

func (f *fakeCommentsRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeCommentsRepo) ListByBuild(ctx context.Context, buildID string) ([]*models.Comment, error) {
	return f.listOut, f.listErr
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeLikesRepo struct {
	added   []string
	removed []string
	count   int64
	err     error
}

func (f *fakeLikesRepo) Add(ctx context.Context, buildID, userID string) error {
	f.added = append(f.added, buildID+"/"+userID)
	return f.err
}

func (f *fakeLikesRepo) Remove(ctx context.Context, buildID, userID string) error {
	f.removed = append(f.removed, buildID+"/"+userID)
	return f.err
}

func (f *fakeLikesRepo) Count(ctx context.Context, buildID string) (int64, error) {
	return f.count, f.err
}

type fakeProfilesRepo struct {
	getOut *models.Profile
	getErr error

	upsertErr error
}

func (f *fakeProfilesRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeProfilesRepo) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return p, nil
}

// fakeRepoManager satisfies repomanager.RepositoryManager with the fakes
// above. Nil fields yield nil repositories, which panic when touched; a
// test that expects no lookup leaves the field nil on purpose.
type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	b  *fakeBuildsRepo
	c  *fakeCommentsRepo
	l  *fakeLikesRepo
	pr *fakeProfilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	if m.u == nil {
		return nil
	}
	return m.u
}

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	if m.r == nil {
		return nil
	}
	return m.r
}

func (m *fakeRepoManager) Builds(db dbx.DBTX) buildsrepo.Repository {
	if m.b == nil {
		return nil
	}
	return m.b
}

func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository {
	if m.c == nil {
		return nil
	}
	return m.c
}

func (m *fakeRepoManager) Likes(db dbx.DBTX) likesrepo.Repository {
	if m.l == nil {
		return nil
	}
	return m.l
}

func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository {
	if m.pr == nil {
		return nil
	}
	return m.pr
}
