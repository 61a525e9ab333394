package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/portal-export/internal/platform/logger"
)

// RequestLog emits one structured line per request once it completes.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("Middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestLog.Info("Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
