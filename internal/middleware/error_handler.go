package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"dscatalog/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// withRequest adds the request id, method and matched route to ev.
func withRequest(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath())
}

// Logger writes one line per request: error level for 5xx, warn for 4xx.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		withRequest(ev, c).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// ErrorHandler logs every error a handler pushed with c.Error. When nothing
// was written yet it answers 500; the cause stays in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			withRequest(log.Error(), c).Err(e.Err).Msg("request failed")
		}
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalError(c))
		}
	}
}

// Recovery turns a panic into the 500 envelope and logs its stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			withRequest(log.Error(), c).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalError(c))
		}()
		c.Next()
	}
}

func internalError(c *gin.Context) *apierror.StandardError {
	return apierror.New(http.StatusInternalServerError, "Internal server error",
		"Unexpected error, see the server log for request "+c.GetString(RequestIDKey), c.Request.URL.Path)
}
