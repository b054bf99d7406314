package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/jobboard/internal/logger"
)

// Logging logs every HTTP request and its result.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, route, duration and status for each request.
func (l *Logging) HandleHTTP(c *gin.Context) {
	start := time.Now()

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"path", c.Request.URL.Path)

	c.Next()

	status := c.Writer.Status()
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"route", route,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	if status >= 500 {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"route", route,
			"errors", c.Errors.String(),
			"status", status)
	}
}
