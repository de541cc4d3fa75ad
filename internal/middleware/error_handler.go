package middleware

import (
	"net/http"
	"time"

	"invoicegen/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestEvent starts a log line carrying the request id, method and path.
func requestEvent(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}

// abortInternal answers with the generic 500 envelope unless a handler has
// already written a response.
func abortInternal(c *gin.Context) {
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(apierror.MsgInternal))
}

// ErrorHandler turns errors attached with c.Error into a 500 response.
// Only the last error is logged; clients see MsgInternal.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		requestEvent(log.Error(), c).Err(c.Errors.Last().Err).Msg("unhandled error")
		abortInternal(c)
	}
}

// Recovery catches handler panics (a renderer fed hostile input, say).
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestEvent(log.Error(), c).Interface("panic", r).Msg("panic recovered")
				abortInternal(c)
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request; 5xx responses log at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		requestEvent(ev, c).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
