package middleware

import (
	"fmt"
	"net/http"
	"time"

	"estate-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		identity := c.GetString(ContextUserID)
		if identity == "" {
			identity = c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), identity)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Limiter outage must not take the API down with it.
			c.Next()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			response.Fail(c, http.StatusTooManyRequests, response.MsgTooManyRequest)
			return
		}

		c.Next()
	}
}
