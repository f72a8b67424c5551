package api

import (
	"encoding/json/v2"
	"log/slog"
	"net"
	"net/http"

	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
)

// RateLimitMiddleware rate limits mutating requests by client IP.
// Reads pass through. Returns 429 Too Many Requests when the limit is
// exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// writeTooManyRequests writes the error envelope outside of huma.
func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.MarshalWrite(w, APIErrorEnvelope{
		Version: EnvelopeVersion,
		Code:    string(domainerrors.CodeTooManyRequests),
		Message: "too many requests, please try again later",
	})
}

// getClientIP extracts the client IP from the request.
// middleware.RealIP has already applied X-Forwarded-For and X-Real-IP.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
