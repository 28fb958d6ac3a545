package config

import "os"

// Environment variables consumed by parseEnv. Signing secrets are
// environment-only so they never appear in flags or config files.
const (
	EnvSessionSecret = "BUILDHUB_SESSION_SECRET"
	EnvCSRFSecret    = "BUILDHUB_CSRF_SECRET"
	EnvStorageSecret = "BUILDHUB_STORAGE_SECRET"
	EnvDatabaseDSN   = "BUILDHUB_DATABASE_DSN"
	EnvRedisAddr     = "BUILDHUB_REDIS_ADDR"
)

// parseEnv overlays environment values onto cfg. Unset variables leave the
// corresponding fields untouched.
func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvSessionSecret); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv(EnvCSRFSecret); v != "" {
		cfg.CSRFSecret = v
	}
	if v := os.Getenv(EnvStorageSecret); v != "" {
		cfg.StorageSecret = v
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.RedisAddr = v
	}
}
