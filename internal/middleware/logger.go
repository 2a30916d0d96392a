package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"staybook/internal/pkg/response"
)

// ErrorLogger recovers panics into a 500 envelope and writes one
// request_error line per failure. Stacks are only attached to panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				log.Print(requestErrorLine(c, start, "panic", fmt.Sprint(recovered)) + " stack=" + fmt.Sprintf("%q", debug.Stack()))
				return
			}

			for _, err := range c.Errors {
				line := requestErrorLine(c, start, errorKind(err.Type), err.Error())
				if err.Meta != nil {
					line += fmt.Sprintf(" meta=%q", fmt.Sprintf("%+v", err.Meta))
				}
				log.Print(line)
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				log.Print(requestErrorLine(c, start, "status", http.StatusText(c.Writer.Status())))
			}
		}()

		c.Next()
	}
}

// requestErrorLine renders the caller identity set by RequestID and JWTAuth
// next to the request itself, as key=value pairs.
func requestErrorLine(c *gin.Context, start time.Time, kind, message string) string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	var b strings.Builder
	b.WriteString("request_error")
	field := func(k string, v any) { fmt.Fprintf(&b, " %s=%v", k, v) }
	field("kind", kind)
	field("request_id", requestID(c))
	field("status", c.Writer.Status())
	field("method", c.Request.Method)
	field("route", route)
	field("path", c.Request.URL.Path)
	if q := c.Request.URL.RawQuery; q != "" {
		field("query", fmt.Sprintf("%q", q))
	}
	if id := c.GetInt64("user_id"); id != 0 {
		field("user_id", id)
		field("email", c.GetString("email"))
		field("role", c.GetString("role"))
	}
	field("client_ip", c.ClientIP())
	field("latency_ms", time.Since(start).Milliseconds())
	field("error", fmt.Sprintf("%q", message))
	return b.String()
}

func errorKind(t gin.ErrorType) string {
	switch t {
	case gin.ErrorTypeBind:
		return "bind"
	case gin.ErrorTypeRender:
		return "render"
	case gin.ErrorTypePublic:
		return "public"
	case gin.ErrorTypePrivate:
		return "private"
	default:
		return "other"
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(requestIDHeader)
}
