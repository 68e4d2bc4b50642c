package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter counts requests per key in fixed Redis windows.
type RateLimiter struct {
	redis  *redis.Client
	log    *zap.Logger
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter constructs a RateLimiter. A nil client disables limiting.
func NewRateLimiter(client *redis.Client, log *zap.Logger, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: client, log: log, prefix: prefix, limit: limit, window: window}
}

// ByIP limits each client address per route.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.MiddlewareByKey(func(c *fiber.Ctx) string {
		return c.Path() + ":" + c.IP()
	})
}

// MiddlewareByKey limits requests sharing the key returned by keyFunc.
// Redis failures let the request through.
func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r.redis == nil || r.limit <= 0 {
			return c.Next()
		}

		ctx := c.UserContext()
		redisKey := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.redis.Incr(ctx, redisKey).Result()
		if err != nil {
			r.log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, redisKey, r.window)
		}
		if count > int64(r.limit) {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}
		return c.Next()
	}
}
