package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/web/ratelimit"
	"github.com/chandas-creator/chandas/internal/web/response"
)

// RateLimitKeyFunc extracts a rate limit key from a request
type RateLimitKeyFunc func(*http.Request) string

// RateLimitConfig holds configuration for rate limiting middleware
type RateLimitConfig struct {
	// Limiter is the rate limiter implementation to use
	Limiter ratelimit.Limiter
	// KeyFunc extracts the rate limit key from the request
	KeyFunc RateLimitKeyFunc
	// FailOpen lets requests through when the limiter errors
	FailOpen bool
	Logger   *zap.Logger
}

// RateLimit limits requests per client IP. Limiter errors are logged and
// the request is let through. A nil limiter disables the middleware.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) Middleware {
	return RateLimitWithConfig(RateLimitConfig{
		Limiter:  limiter,
		KeyFunc:  IPKeyFunc,
		FailOpen: true,
		Logger:   logger,
	})
}

// RateLimitWithConfig creates a rate limiting middleware with custom configuration
func RateLimitWithConfig(config RateLimitConfig) Middleware {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ratelimit")

	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = IPKeyFunc
	}

	return func(next http.Handler) http.Handler {
		if config.Limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			info, err := config.Limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("rate limit check failed",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("key", key),
					zap.Error(err),
				)
				if config.FailOpen {
					next.ServeHTTP(w, r)
				} else {
					response.RenderServiceUnavailable(w, "")
				}
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !info.Allowed {
				retryAfter := max(0, int64(time.Until(info.ResetAt).Seconds()))
				response.RenderTooManyRequests(w, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPKeyFunc extracts the client IP, preferring X-Forwarded-For and
// X-Real-IP over RemoteAddr
func IPKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
