package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

type ctxKey struct{}

// UserFromContext возвращает идентичность, положенную Middleware
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(ctxKey{}).(string)
	return user, ok
}

// Middleware проверяет Authorization: Bearer и кладет subject в контекст.
// Все, что за ним, может считать идентичность установленной
func Middleware(manager *JWTManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, r, http.StatusUnauthorized, "authorization header missing or invalid format")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			subject, err := manager.Parse(token)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				respond.Error(w, r, http.StatusUnauthorized, "could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
