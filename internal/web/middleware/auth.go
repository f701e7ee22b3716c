package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/web/auth"
	"github.com/chandas-creator/chandas/internal/web/response"
)

// SubjectKey is the context key for the authenticated token subject
const SubjectKey ContextKey = "subject"

// Auth requires a valid bearer token. When the service has no secret the
// middleware lets every request through.
func Auth(authService *auth.AuthService, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("auth")

	return func(next http.Handler) http.Handler {
		if authService == nil || !authService.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.RenderUnauthorized(w, "Authorization required")
				return
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				response.RenderUnauthorized(w, "Invalid authorization format")
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				logger.Warn("rejected token",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				response.RenderUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject returns the authenticated token subject, if any
func GetSubject(ctx context.Context) string {
	if subject, ok := ctx.Value(SubjectKey).(string); ok {
		return subject
	}
	return ""
}
