package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest     = "invalid request"
	msgMissingCredentials = "name and password are required"
	msgInvalidCredentials = "invalid credentials"
	msgUnauthorized       = "unauthorized"
	msgForbidden          = "forbidden"
	msgNotFound           = "not found"
	msgAlreadyExists      = "already exists"
	msgInternal           = "internal server error"
)

// statusFor maps a service error to its HTTP status and public message.
// Unrecognised errors are internal.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, msgInvalidRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, msgAlreadyExists
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "request_id", c.GetString(ctxKeyRequestID), "error", err)
	}
	abortWithError(c, status, msg)
}
