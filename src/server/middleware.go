package server

import (
	"strconv"
	"strings"
	"time"

	"market-analyzer/src/helpers"
	"market-analyzer/src/metrics"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// -----------------------------------------------------------------------------

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// -----------------------------------------------------------------------------

// sessionToken reads the session cookie, or a bearer token for API clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// -----------------------------------------------------------------------------

// requireSession rejects requests without a live session.
func (s *HTTPServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.Deps.Sessions.Lookup(sessionToken(c))
		if !ok {
			s.writeError(c, helpers.NewError(helpers.ErrUnauthorized, "Please log in to access this page", nil))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}
