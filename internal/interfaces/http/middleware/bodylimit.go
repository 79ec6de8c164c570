package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/primeapparel/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Packing
// list payloads with hundreds of cartons stay well under a megabyte, so
// anything larger is rejected outright.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body exceeds maximum allowed size"))
			return
		}

		// Guard streaming requests that omit Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
