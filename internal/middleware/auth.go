package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inkwell-labs/blog-server/internal/app/services/auth"
	"github.com/inkwell-labs/blog-server/internal/httputil"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware verifies bearer tokens. No route currently requires a token;
// with Required false the middleware only attaches claims when a valid token
// is presented, which is the seam for enforcing authentication later without
// touching the handlers.
type AuthMiddleware struct {
	secret   []byte
	required bool
	log      *logger.Logger
}

// NewAuthMiddleware creates an authentication middleware.
func NewAuthMiddleware(secret []byte, required bool, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth-middleware")
	}
	return &AuthMiddleware{secret: secret, required: required, log: log}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if m.required {
					httputil.Unauthorized(w, "missing Authorization header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				if m.required {
					httputil.Unauthorized(w, "invalid Authorization header format")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(m.secret, parts[1])
			if err != nil {
				m.log.WithError(err).Warn("token validation failed")
				if m.required {
					httputil.Unauthorized(w, "invalid token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from context, if any.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
