package config

import (
	"encoding/json"
	"os"

	"github.com/avolkau/buildhub/internal/flagx"
	"github.com/avolkau/buildhub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration. Secrets are not read
// from JSON; they come from the environment.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	StorageGatewayAddr           string         `json:"storage_gateway_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CSRFTokenValidityDuration    timex.Duration `json:"csrf_token_validity_duration"`
	StorageTokenValidityDuration timex.Duration `json:"storage_token_validity_duration"`
	RateLimitMaxRequests         int            `json:"rate_limit_max_requests"`
	RateLimitWindow              timex.Duration `json:"rate_limit_window"`
	RedisAddr                    string         `json:"redis_addr"`
	TrustXForwardedFor           bool           `json:"trust_x_forwarded_for"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	SecureCookies                bool           `json:"secure_cookies"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Zero values in the file leave the
// corresponding Config fields untouched.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.StorageGatewayAddr != "" {
		cfg.StorageGatewayAddr = jc.StorageGatewayAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.RefreshTokenValidityDuration.Duration != 0 {
		cfg.RefreshTokenValidityDuration = jc.RefreshTokenValidityDuration.Duration
	}
	if jc.CSRFTokenValidityDuration.Duration != 0 {
		cfg.CSRFTokenValidityDuration = jc.CSRFTokenValidityDuration.Duration
	}
	if jc.StorageTokenValidityDuration.Duration != 0 {
		cfg.StorageTokenValidityDuration = jc.StorageTokenValidityDuration.Duration
	}
	if jc.RateLimitMaxRequests != 0 {
		cfg.RateLimitMaxRequests = jc.RateLimitMaxRequests
	}
	if jc.RateLimitWindow.Duration != 0 {
		cfg.RateLimitWindow = jc.RateLimitWindow.Duration
	}
	if jc.RedisAddr != "" {
		cfg.RedisAddr = jc.RedisAddr
	}
	if jc.TrustXForwardedFor {
		cfg.TrustXForwardedFor = true
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.SecureCookies {
		cfg.SecureCookies = true
	}
}
