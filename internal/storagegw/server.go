package storagegw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/logging"
	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/ratelimit"
	"github.com/avolkau/buildhub/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	presign *PresignService
	limiter ratelimit.Limiter
	config  *config.Config
}

func NewServer(cfg *config.Config, logger logging.Logger, presign *PresignService, limiter ratelimit.Limiter) *Server {
	return &Server{
		address: cfg.StorageGatewayAddr,
		logger:  logger.With("module", "storage_gateway"),
		presign: presign,
		limiter: limiter,
		config:  cfg,
	}
}

type claimsCtxKey int

const claimsKey claimsCtxKey = iota

func claimsFrom(ctx context.Context) *services.StorageClaims {
	c, _ := ctx.Value(claimsKey).(*services.StorageClaims)
	return c
}

// authMiddleware requires a valid delegated-access token on every request.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthHeaderName)
		tokenString, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tokenString == "" {
			s.writeError(w, common.ErrorUnauthorized)
			return
		}

		claims, err := verifyDelegatedToken(tokenString, []byte(s.config.StorageSecret))
		if err != nil {
			s.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.Use(ratelimit.Middleware(s.limiter, ratelimit.DefaultKeyFunc(s.config.TrustXForwardedFor), s.logger,
		func(w http.ResponseWriter, r *http.Request, _ ratelimit.Result) {
			s.writeError(w, common.ErrorRateLimited)
		}))
	r.Use(s.authMiddleware)

	r.HandleFunc("/api/objects/upload-url", s.handleUploadURL).Methods(http.MethodPost)
	r.HandleFunc("/api/objects/download-url", s.handleDownloadURL).Methods(http.MethodPost)

	return r
}

type objectRequest struct {
	Name string `json:"name"`
}

type objectURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	s.handleObjectURL(w, r, s.presign.PresignedPutURL)
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	s.handleObjectURL(w, r, s.presign.PresignedGetURL)
}

func (s *Server) handleObjectURL(w http.ResponseWriter, r *http.Request, presign func(context.Context, string) (string, error)) {
	var req objectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorValidation)
		return
	}

	key, err := scopedKey(claimsFrom(r.Context()).Subject, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	url, err := presign(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err.Error())
		s.writeError(w, common.ErrorInternal)
		return
	}

	s.writeJSON(w, http.StatusOK, objectURLResponse{Key: key, URL: url})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorRateLimited):
		status, msg = http.StatusTooManyRequests, "rate limit exceeded"
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping storage gateway...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting storage gateway", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
