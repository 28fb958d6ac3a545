package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkau/buildhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address for the API (e.g., ":8080")
//	-w string   HTTP bind address for the storage gateway
//	-d string   PostgreSQL DSN
//	-t int      access token validity, minutes
//	-r int      refresh token validity, hours
//	-l int      rate limit: max requests per window
//	-i int      rate limit: window length, seconds
//	-q string   Redis address for the rate limiter ("" keeps in-memory)
//	-x          trust the first X-Forwarded-For entry for rate limiting
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Secrets are deliberately not flags; they come from the environment so
// they never show up in process listings.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-t", "-r", "-l", "-i", "-q", "-x", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run the API server")
	fs.StringVar(&config.StorageGatewayAddr, "w", config.StorageGatewayAddr, "address and port to run the storage gateway")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Hours()), "refresh token validity (in hours)")

	fs.IntVar(&config.RateLimitMaxRequests, "l", config.RateLimitMaxRequests, "max requests per rate-limit window")
	rateLimitWindow := fs.Int("i", int(config.RateLimitWindow.Seconds()), "rate-limit window (in seconds)")
	fs.StringVar(&config.RedisAddr, "q", config.RedisAddr, "redis address for the rate limiter")
	fs.BoolVar(&config.TrustXForwardedFor, "x", config.TrustXForwardedFor, "trust X-Forwarded-For for rate limiting")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Hour
	config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Second
}
