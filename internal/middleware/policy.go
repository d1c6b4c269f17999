package middleware

import (
	"study_rewards_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// PolicyMiddleware 每个请求只读取一次策略，热更新不会影响进行中的请求
func PolicyMiddleware(src config.PolicySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot := src.Snapshot()
		c.Set("policy", snapshot)
		c.Request = c.Request.WithContext(config.WithPolicy(c.Request.Context(), snapshot))
		c.Next()
	}
}

// RequestID 透传或生成请求ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
