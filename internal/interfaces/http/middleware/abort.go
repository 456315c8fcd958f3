package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/interfaces/http/dto"
)

// abort stops the chain with the standard error envelope
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
