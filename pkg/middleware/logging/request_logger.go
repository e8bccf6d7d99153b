package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
)

// RequestLogger puts a request-scoped logger into the context and writes one
// "request_completed" line per request. The level follows the final status.
// The caller's identity is added when the bearer middleware accepted a token.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", c.Response().Size,
			}
			if uid, ok := c.Get(authmw.CtxUserID).(string); ok && uid != "" {
				attrs = append(attrs, "user_id", uid, "role", c.Get(authmw.CtxRole))
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}

			l.Log(req.Context(), levelFor(c.Response().Status), "request_completed", attrs...)
			return nil
		}
	}
}

// requestID prefers the client's header and falls back to the id echo's
// RequestID middleware put on the response.
func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
