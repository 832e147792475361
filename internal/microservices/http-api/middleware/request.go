package middleware

import (
	"context"
	"strings"
	"time"

	"moviehub/internal/logger"
	"moviehub/internal/microservices/http-api/loader"
	"moviehub/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

type ctxKeyRequestID struct{}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return v
}

// RequestID propagates the caller's X-Request-Id or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		c.Set("requestID", rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKeyRequestID{}, rid))
		c.Next()
	}
}

// RequestLogger writes one line per request after it completes.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		identity, _ := IdentityFromContext(ctx)
		log := logger.WithRequest(base, RequestIDFromContext(ctx), identity.UserID)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// UserLoader gives every request its own batching user loader.
func UserLoader(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := loader.NewUserLoader(users)
		c.Request = c.Request.WithContext(loader.WithUserLoader(c.Request.Context(), l))
		c.Next()
	}
}
