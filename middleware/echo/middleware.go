package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/middleware"
)

// ValidateJSON validates the request body against typeName (the schema
// exports when empty), stores the decoded instance in the request context, or
// returns 400 with the issue payload.
func ValidateJSON(s *jadn.Schema, typeName string, opt jadn.ValidateOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Decode(c.Request().Context(), s, c.Request().Body, typeName, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithInstance(c.Request().Context(), v)))
			return next(c)
		}
	}
}

// GetInstance fetches the validated instance from echo.Context.
func GetInstance(c echo.Context) (any, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
