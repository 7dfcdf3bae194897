package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey — ключ идентификатора запроса в контексте gin.
const RequestIDKey = "request_id"

// RequestIDMiddleware присваивает каждому запросу идентификатор для
// сквозной трассировки в логах. Использует входящий X-Request-ID, если
// клиент его передал.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
