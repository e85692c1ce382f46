package server

import (
	"errors"
	"net/http"

	"market-analyzer/src/helpers"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch helpers.KindOf(err) {
	case helpers.ErrValidation:
		return http.StatusBadRequest
	case helpers.ErrInvalidCredentials, helpers.ErrUnauthorized:
		return http.StatusUnauthorized
	case helpers.ErrDuplicateUser:
		return http.StatusConflict
	case helpers.ErrDataUnavailable:
		return http.StatusNotFound
	case helpers.ErrInsufficientHistory, helpers.ErrInsufficientPreparedData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

// writeError renders err as {"error": kind, "message": text}.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError && !errors.Is(err, helpers.ErrTotalForecast) {
		s.Logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error":   helpers.KindName(err),
		"message": helpers.UserMessage(err),
	})
}
