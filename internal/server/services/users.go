package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/cryptox"
	"github.com/avolkau/buildhub/internal/dbx"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
	"github.com/avolkau/buildhub/internal/token"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionClaims is the payload of a session access token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	PrimaryID string `json:"pid"`
	Email     string `json:"email"`
}

// UserService implements registration and session management for locally
// provisioned accounts acting as the identity provider.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: rm, config: cfg}
}

// Register provisions a new account. The primary identifier is assigned
// here once and never changes; everything downstream (including derived
// storage subjects) keys off it.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}

	hash, salt := cryptox.HashPassword([]byte(password))

	user := &models.User{
		PrimaryID:    "local|" + uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokenPair(ctx, s.db, user)
}

// Refresh rotates a refresh token: the presented token is deleted and a
// new pair is issued in one transaction, so a crash mid-rotation cannot
// leave the caller with neither. Expired or unknown tokens yield
// ErrorUnauthorized.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	stored, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if time.Now().After(stored.Expires) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return err
		}
		p, err := s.issueTokenPair(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout invalidates the presented refresh token. Access tokens are left
// to expire on their own.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// Authenticate verifies a session access token and returns the identity it
// carries. Any verification failure maps to ErrorUnauthorized.
func (s *UserService) Authenticate(tokenString string) (*Identity, error) {
	claims := &SessionClaims{}
	if err := token.Verify(tokenString, []byte(s.config.SessionSecret), claims); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return &Identity{UserID: claims.UserID, PrimaryID: claims.PrimaryID, Email: claims.Email}, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, db dbx.DBTX, user *models.User) (*TokenPair, error) {
	access, err := token.Sign(&SessionClaims{
		RegisteredClaims: token.StandardClaims(s.config.AccessTokenValidityDuration),
		UserID:           user.ID,
		PrimaryID:        user.PrimaryID,
		Email:            user.Email,
	}, []byte(s.config.SessionSecret))
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, s.config.RefreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
