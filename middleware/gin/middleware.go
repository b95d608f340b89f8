package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/middleware"
)

// ValidateJSON validates the request body against typeName (the schema
// exports when empty), stores the decoded instance in the request context and
// aborts with 400 and the issue payload on failure.
func ValidateJSON(s *jadn.Schema, typeName string, opt jadn.ValidateOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Decode(c.Request.Context(), s, c.Request.Body, typeName, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), v))
		c.Next()
	}
}

// GetInstance fetches the validated instance from gin.Context.
func GetInstance(c *gin.Context) (any, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
