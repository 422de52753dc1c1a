package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"educenter/internal/logger"
	"educenter/internal/metrics"
	"educenter/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id, logs one line per request and records
// the latency histogram.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = logger.NewRequestID()
		}
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), rid))

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		latency := time.Since(start)
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(latency.Seconds())

		log := logger.WithContext(c.Request.Context()).With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", "errors", c.Errors.String())
		case status >= http.StatusInternalServerError:
			log.Error("request completed")
		default:
			log.Info("request completed")
		}
	}
}

// Recovery turns a panic into a 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logger.WithContext(c.Request.Context()).Error("panic recovered",
					"error", err.Error(),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
			}
		}()
		c.Next()
	}
}
