package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/logger"
)

// CustomLogger writes one access log line per request. The route template
// is logged instead of the raw path so call and member ids group together.
func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if memberID, exists := c.Get(constants.ContextKeyUserID); exists {
			args = append(args, "member_id", memberID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status == 429 || status == 403:
			log.Infow("request refused", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		default:
			log.Debugw("request completed", args...)
		}
	}
}
