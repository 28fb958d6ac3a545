// Package server initializes and runs the buildhub API server: it loads
// configuration, connects storage backends, runs schema migrations, and
// serves HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/avolkau/buildhub/internal/logging"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/csrf"
	"github.com/avolkau/buildhub/internal/server/httpapi"
	"github.com/avolkau/buildhub/internal/server/ratelimit"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
	"github.com/avolkau/buildhub/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisStore(client, cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	} else {
		limiter = ratelimit.NewMemoryStore(cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	}

	guard := csrf.NewGuard([]byte(cfg.CSRFSecret), cfg.CSRFTokenValidityDuration, cfg.SecureCookies)

	srv := httpapi.NewServer(
		cfg,
		logger,
		services.NewUserService(db, rm, cfg),
		services.NewBuildService(db, rm, cfg),
		services.NewSocialService(db, rm, cfg),
		services.NewProfileService(db, rm, cfg),
		services.NewStorageTokenService(db, rm, cfg),
		guard,
		limiter,
	)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
