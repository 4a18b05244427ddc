package middleware

import (
	"net/http"
	"strings"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/user"
	"plantcare-be/internal/utils"
)

// extractToken prefers the access_token cookie, falling back to the
// Authorization header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// RequireAuth verifies the bearer token and loads the caller's identity into
// context. Missing or invalid tokens are rejected outright.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			httpx.Error(w, r, apperr.Unauthenticated("missing token"))
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			httpx.Error(w, r, apperr.Unauthenticated("invalid token"))
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route group to one role. Must sit after RequireAuth.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := utils.GetUserRoleFromContext(r.Context())
			if got != string(role) {
				httpx.Error(w, r, apperr.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
