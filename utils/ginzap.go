package utils

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mddforum/mdd-api/apperror"
)

// ContextRequestIDKey is where the request id middleware stores the id.
const ContextRequestIDKey = "request_id"

// Ginzap logs every request once it completes.
func Ginzap(log *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		if utc {
			end = end.UTC()
		}
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", end.Sub(start)),
			zap.String("time", end.Format(timeFormat)),
			zap.String("request_id", c.GetString(ContextRequestIDKey)),
		}

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				log.Error(e, fields...)
			}
			return
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error(path, fields...)
		case status >= http.StatusBadRequest:
			log.Warn(path, fields...)
		default:
			log.Info(path, fields...)
		}
	}
}

// RecoveryWithZap recovers from panics, logs them and answers with the internal error envelope.
func RecoveryWithZap(log *zap.Logger, stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				httpRequest, _ := httputil.DumpRequest(c.Request, false)

				if brokenPipe(rec) {
					log.Error(c.Request.URL.Path, zap.Any("error", rec), zap.String("request", string(httpRequest)))
					_ = c.Error(errors.New("broken pipe"))
					c.Abort()
					return
				}

				fields := []zap.Field{
					zap.Any("error", rec),
					zap.String("request", string(httpRequest)),
					zap.Time("time", time.Now()),
				}
				if stack {
					fields = append(fields, zap.Stack("stacktrace"))
				}
				log.Error("[Recovery from panic]", fields...)
				Fail(c, apperror.Internal(errors.New("panic recovered")))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// brokenPipe reports whether the panic came from a dropped client connection.
func brokenPipe(rec interface{}) bool {
	ne, ok := rec.(*net.OpError)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if errors.As(ne, &se) {
		msg := strings.ToLower(se.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
