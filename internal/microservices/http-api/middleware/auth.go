package middleware

import (
	"context"
	"strings"

	"moviehub/internal/microservices/http-api/service"
	"moviehub/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKeyIdentity struct{}

// WithIdentity attaches a verified identity to ctx.
func WithIdentity(ctx context.Context, identity shared.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, identity)
}

// IdentityFromContext returns the verified identity, if any.
func IdentityFromContext(ctx context.Context) (shared.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity{}).(shared.Identity)
	return identity, ok
}

// RequireAuth is the enforcement point for protected operations. It must run
// before any side effect.
func RequireAuth(ctx context.Context) (shared.Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.UserID == "" {
		return shared.Identity{}, shared.ErrUnauthenticated
	}
	return identity, nil
}

// Authenticate verifies an optional bearer token. A missing, malformed or
// invalid token never aborts the request; it just proceeds anonymously and
// protected handlers reject it through RequireAuth.
func Authenticate(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		identity, err := authService.ResolveIdentity(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debug("request continues anonymously",
				zap.String("request_id", RequestIDFromContext(c.Request.Context())),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("role", identity.Role)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), *identity))

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
