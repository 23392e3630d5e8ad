package middleware

import (
	"context"
	"net/http"
	"strings"

	"smartnotes-server/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

const SessionCookieName = "session"

// TokenValidator resolves an access token to a user id.
type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			setRequestUser(r.Context(), userID)
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest reads a Bearer authorization header, falling back to the
// session cookie. A malformed header is not retried against the cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
