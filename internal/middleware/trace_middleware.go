package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"swipeNews/business/bandit"
)

const traceKey = "trace_id"

// Trace reuses an incoming X-Request-ID or mints a new one, echoes it on the
// response and puts it on the request context.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Set(traceKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(c.Request().WithContext(bandit.WithTraceID(c.Request().Context(), id)))

			return next(c)
		}
	}
}

func TraceID(c echo.Context) string {
	id, _ := c.Get(traceKey).(string)
	return id
}
