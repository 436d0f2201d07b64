package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderAdminSentinel carries the privileged marker on admin REST calls.
const HeaderAdminSentinel = "X-Admin-Sentinel"

// AdminMiddleware admits requests whose sentinel header matches.
func AdminMiddleware(sentinel Matcher, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderAdminSentinel)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + HeaderAdminSentinel + " header"})
			return
		}
		if sentinel == nil || !sentinel.Match(header) {
			logger.Warn().Str("remote", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("admin sentinel mismatch")
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
