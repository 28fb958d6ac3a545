package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/avolkau/buildhub/internal/logging"
)

// KeyFunc extracts the client identifier a request is limited by.
type KeyFunc func(r *http.Request) string

// DefaultKeyFunc keys by client network address: the first X-Forwarded-For
// entry when the deployment trusts its proxy, otherwise the RemoteAddr host.
func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// RejectionHandler writes the response body for a rejected request. The
// middleware has already attached the rate-limit headers, including
// Retry-After, and the wrapped handler is never invoked.
type RejectionHandler func(w http.ResponseWriter, r *http.Request, res Result)

func defaultRejectionHandler(w http.ResponseWriter, r *http.Request, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	fmt.Fprintf(w, `{"error":"rate limit exceeded","retry_after":%d}`, res.ResetSeconds)
}

// Middleware applies limiter to every request. Rate-limit headers are
// attached to every response; rejections get 429 with Retry-After via
// onReject (or a plain JSON body when onReject is nil). A limiter
// transport failure fails open: rejecting all traffic on a Redis outage
// would be a worse failure than briefly not limiting it.
func Middleware(limiter Limiter, keyFn KeyFunc, logger logging.Logger, onReject RejectionHandler) func(next http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = DefaultKeyFunc(false)
	}
	if onReject == nil {
		onReject = defaultRejectionHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn(r.Context(), "rate limiter unavailable, allowing request", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(res.ResetSeconds))

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(res.ResetSeconds))
				onReject(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
