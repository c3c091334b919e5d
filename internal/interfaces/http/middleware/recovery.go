package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

// Recovery turns a handler panic into a 500 envelope. A panic caused by the
// client hanging up is logged and dropped, since nobody is left to answer.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fields := requestFields(c)

		if isBrokenConnection(recovered) {
			log.Warnw("client connection lost during request", append(fields, "error", recovered)...)
			c.Abort()
			return
		}

		log.Errorw("panic recovered", append(fields,
			"headers", redactedHeaders(c.Request.Header),
			"error", recovered,
			"stack", string(debug.Stack()),
		)...)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
	})
}

func requestFields(c *gin.Context) []any {
	fields := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if memberID, ok := c.Get(constants.ContextKeyUserID); ok {
		fields = append(fields, "member_id", memberID)
	}
	return fields
}

func redactedHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if strings.EqualFold(name, constants.HeaderAuthorization) || strings.EqualFold(name, "Cookie") {
			out[name] = "*"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isBrokenConnection(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, http.ErrAbortHandler)
}

// ErrorHandler renders errors attached with c.Error when the handler did not
// write a response itself.
func ErrorHandler(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log.Errorw("handler error occurred", append(requestFields(c), "error", err)...)

		if !c.Writer.Written() {
			utils.ErrorResponseWithError(c, err)
		}
	}
}
