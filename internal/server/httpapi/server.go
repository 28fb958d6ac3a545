// Package httpapi exposes the buildhub services over HTTP. Every request
// passes through the rate limiter, the anti-forgery guard, and session
// authentication before reaching a handler.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/logging"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/csrf"
	"github.com/avolkau/buildhub/internal/server/ratelimit"
	"github.com/avolkau/buildhub/internal/server/services"
)

type Server struct {
	address       string
	logger        logging.Logger
	users         *services.UserService
	builds        *services.BuildService
	social        *services.SocialService
	profiles      *services.ProfileService
	storageTokens *services.StorageTokenService
	guard         *csrf.Guard
	limiter       ratelimit.Limiter
	config        *config.Config
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	users *services.UserService,
	builds *services.BuildService,
	social *services.SocialService,
	profiles *services.ProfileService,
	storageTokens *services.StorageTokenService,
	guard *csrf.Guard,
	limiter ratelimit.Limiter,
) *Server {
	return &Server{
		address:       cfg.EndpointAddr,
		logger:        logger.With("module", "http_server"),
		users:         users,
		builds:        builds,
		social:        social,
		profiles:      profiles,
		storageTokens: storageTokens,
		guard:         guard,
		limiter:       limiter,
		config:        cfg,
	}
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.Use(ratelimit.Middleware(s.limiter, ratelimit.DefaultKeyFunc(s.config.TrustXForwardedFor), s.logger, s.rateLimitRejected))
	r.Use(s.csrfMiddleware)
	r.Use(s.authMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/csrf", s.handleCSRFToken).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	api.HandleFunc("/storage/token", s.requireIdentity(s.handleStorageToken)).Methods(http.MethodGet)

	api.HandleFunc("/builds", s.handleListBuilds).Methods(http.MethodGet)
	api.HandleFunc("/builds", s.requireIdentity(s.handleCreateBuild)).Methods(http.MethodPost)
	api.HandleFunc("/builds/{id}", s.handleGetBuild).Methods(http.MethodGet)
	api.HandleFunc("/builds/{id}", s.requireIdentity(s.handleUpdateBuild)).Methods(http.MethodPut)
	api.HandleFunc("/builds/{id}", s.requireIdentity(s.handleDeleteBuild)).Methods(http.MethodDelete)

	api.HandleFunc("/builds/{id}/comments", s.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/builds/{id}/comments", s.requireIdentity(s.handleAddComment)).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id}", s.requireIdentity(s.handleDeleteComment)).Methods(http.MethodDelete)

	api.HandleFunc("/builds/{id}/likes", s.handleLikeCount).Methods(http.MethodGet)
	api.HandleFunc("/builds/{id}/like", s.requireIdentity(s.handleLike)).Methods(http.MethodPut)
	api.HandleFunc("/builds/{id}/like", s.requireIdentity(s.handleUnlike)).Methods(http.MethodDelete)

	api.HandleFunc("/profiles/{userID}", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.requireIdentity(s.handleUpdateProfile)).Methods(http.MethodPut)

	return r
}

func (s *Server) rateLimitRejected(w http.ResponseWriter, r *http.Request, _ ratelimit.Result) {
	writeError(w, common.ErrorRateLimited)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
