package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-backend/pkg/auth"
)

// Authenticate validates the bearer token and installs the caller's
// UserContext on the request context. Requests pre-authorized by the API
// Gateway JWT authorizer carry identity headers instead of a local token.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(100)
	userLimiter := auth.NewUserRateLimiter(200)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if allowed, _ := ipLimiter.Allow(r.Context(), clientIP); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			var userCtx *auth.UserContext

			if r.Header.Get("X-API-Gateway-Authorized") == "true" {
				userID := r.Header.Get("X-User-ID")
				if userID == "" {
					respondUnauthorized(w, "Missing user context from API Gateway")
					return
				}
				roles := []string{"authenticated"}
				if userRoles := r.Header.Get("X-User-Roles"); userRoles != "" {
					roles = strings.Split(userRoles, ",")
				}
				userCtx = &auth.UserContext{
					UserID: userID,
					Email:  r.Header.Get("X-User-Email"),
					Roles:  roles,
				}
			} else {
				token := extractToken(r)
				if token == "" {
					respondUnauthorized(w, "Missing authorization header")
					return
				}

				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.Warn("Invalid token",
						zap.Error(err),
						zap.String("ip", clientIP),
						zap.String("path", r.URL.Path),
					)
					switch err {
					case auth.ErrExpiredToken:
						respondUnauthorized(w, "Token has expired")
					case auth.ErrInvalidSignature:
						respondUnauthorized(w, "Invalid token signature")
					default:
						respondUnauthorized(w, "Invalid token")
					}
					return
				}
				userCtx = &auth.UserContext{
					UserID: claims.UserID,
					Email:  claims.Email,
					Roles:  claims.Roles,
				}
			}

			if allowed, _ := userLimiter.Allow(r.Context(), userCtx.UserID); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards privileged routes. Missing identity is 401;
// insufficient privilege is 403.
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				respondUnauthorized(w, "Unauthorized")
				return
			}
			if !user.IsPrivileged() {
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		authHeader = r.Header.Get("authorization")
	}
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return authHeader
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    code,
	})
}
