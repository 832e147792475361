package handler

import (
	"errors"
	"net/http"

	"moviehub/internal/microservices/http-api/middleware"
	"moviehub/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const codeInternal = "INTERNAL"

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFor(kind shared.Kind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindUnauthenticated, shared.KindInvalidToken, shared.KindInvalidCredentials:
		return http.StatusUnauthorized
	case shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Caller-facing errors keep their
// code and message; anything else is logged and reported as INTERNAL.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	requestID := middleware.RequestIDFromContext(c.Request.Context())

	var se *shared.Error
	if errors.As(err, &se) {
		c.AbortWithStatusJSON(statusFor(se.Kind), ErrorResponse{Error: APIError{
			Code:      string(se.Kind),
			Message:   se.Error(),
			RequestID: requestID,
		}})
		return
	}

	_ = c.Error(err)
	log.Error("request failed",
		zap.String("request_id", requestID),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: APIError{
		Code:      codeInternal,
		Message:   "internal server error",
		RequestID: requestID,
	}})
}

// badInput reports a malformed body or query parameter.
func badInput(c *gin.Context, log *zap.Logger, format string, args ...any) {
	respondError(c, log, shared.Validation(format, args...))
}
