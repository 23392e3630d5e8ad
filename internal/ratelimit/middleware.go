package ratelimit

import (
	"net/http"
	"strconv"

	"smartnotes-server/pkg/response"
)

const RetryAfterSeconds = 60

// Middleware rejects requests over the caller's budget with 429. Requests
// without a user id pass through; the auth gate handles them.
func Middleware(limiter *RateLimiter, getUserID func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := getUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(userID) {
				w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
				response.TooManyRequests(w, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
