package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware ограничивает частоту мутирующих действий пользователя.
// Ключ лимита берётся из user_id в теле запроса, чтобы анти-спам действовал
// на пользователя, а не на IP (запросы Mini App приходят через общие прокси
// Telegram). При отсутствии user_id используется IP клиента.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 1
	}
	if period <= 0 {
		period = 2 * time.Second
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	store := memory.NewStore()
	instance := limiter.New(store, rate)

	return func(c *gin.Context) {
		key := userKey(c)
		context, err := instance.Get(c, key)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", context.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", context.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", context.Reset))

		if context.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "слишком много запросов, попробуйте позже",
			})
			return
		}

		c.Next()
	}
}

// userKey извлекает user_id из тела запроса, возвращая тело на место для
// последующего биндинга в обработчике.
func userKey(c *gin.Context) string {
	body, err := c.GetRawData()
	if err != nil {
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var probe struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.UserID == 0 {
		return c.ClientIP()
	}
	return "user:" + strconv.FormatInt(probe.UserID, 10)
}
