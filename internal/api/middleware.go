package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware tags every response with an id, honoring one supplied
// by the caller. The request logger's ${id} tag reads it back from the
// header.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Request().Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response().Header().Set(HeaderRequestID, id)

		return next(ctx)
	}
}
