package middleware

import (
	"net/http"

	"wiki-quiz/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter limits requests per client IP. Max <= 0 disables it. Probe endpoints are exempt.
func RateLimiter(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Next: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/metrics", "/healthz":
				return true
			}
			return false
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(http.StatusTooManyRequests).JSON(ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Too many requests",
				Status:  http.StatusTooManyRequests,
			})
		},
	})
}
