package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/pkg/auth"
	"github.com/yourusername/project-hub/pkg/logger"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext возвращает актора, помещенного в контекст запроса
// при аутентификации
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}

// WithActor помещает актора в контекст. Используется в тестах обработчиков.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// AuthMiddleware предоставляет middleware для аутентификации пользователей
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	logger     logger.Logger
}

// NewAuthMiddleware создает новый экземпляр AuthMiddleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		logger:     log,
	}
}

// Authenticate проверяет наличие и валидность JWT токена
// и помещает актора в контекст запроса
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			m.logger.Warn("invalid access token", "error", err.Error())
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := WithActor(r.Context(), claims.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
