package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/gin-gonic/gin"
)

type apiError struct {
	err    error
	status int
	code   string
	detail string
}

var apiErrors = []apiError{
	{common.ErrNoSession, http.StatusUnauthorized, "NO_SESSION", "JWT doesn't exist: may not set yet or deleted"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "The JWT has expired"},
	{common.ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID", "JWT is not valid"},
	{common.ErrCsrfMissing, http.StatusUnauthorized, "CSRF_MISSING", "The CSRF token is missing"},
	{common.ErrCsrfInvalid, http.StatusUnauthorized, "CSRF_INVALID", "The CSRF token is invalid"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
	{common.ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN", "Email is already taken or Password is too short"},
	{common.ErrPasswordTooShort, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password is too short"},
	{common.ErrPasswordTooLong, http.StatusBadRequest, "PASSWORD_TOO_LONG", "Password is too long"},
	{common.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND", "Task does not exist"},
}

var internalError = apiError{status: http.StatusInternalServerError, code: "INTERNAL", detail: "Internal server error"}

func lookupError(err error) apiError {
	for _, e := range apiErrors {
		if errors.Is(err, e.err) {
			return e
		}
	}
	return internalError
}

// abortWithError writes the JSON error body for err. Expected client
// conditions are logged at info, anything unmapped at error.
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	e := lookupError(err)

	if e.status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	} else {
		s.logger.Info(c.Request.Context(), "request rejected", "path", c.FullPath(), "code", e.code)
	}
	if e.status == http.StatusUnauthorized {
		s.metrics.rejections.WithLabelValues(e.code).Inc()
	}

	c.AbortWithStatusJSON(e.status, gin.H{"code": e.code, "detail": e.detail})
}

func (s *HTTPServer) abortBadRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "detail": detail})
}
