package middlewares

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/idgen-api/internal/shared/ratelimit"
)

type RateLimitConfig struct {
	Limiter      ratelimit.Limiter
	Skipper      func(c fiber.Ctx) bool
	KeyExtractor func(c fiber.Ctx) string

	// Cost reports how many units a request consumes. Defaults to 1.
	Cost func(c fiber.Ctx) int64

	Logger *slog.Logger
}

func NewHTTPRateLimitMiddleware(cfg RateLimitConfig) fiber.Handler {
	if cfg.Limiter == nil {
		return func(c fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.Skipper == nil {
		cfg.Skipper = func(c fiber.Ctx) bool { return false }
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = PerClientKeyExtractor("rl")
	}

	if cfg.Cost == nil {
		cfg.Cost = func(c fiber.Ctx) int64 { return 1 }
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(c fiber.Ctx) error {
		if cfg.Skipper(c) {
			return c.Next()
		}

		key := cfg.KeyExtractor(c)
		cost := cfg.Cost(c)
		if cost < 1 {
			cost = 1
		}

		result, err := cfg.Limiter.AllowN(c.Context(), key, cost)
		if err != nil {
			cfg.Logger.Error("rate limit check failed", "error", err, "key", key, "cost", cost)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
		}

		return c.Next()
	}
}

func SkipHealthCheck(c fiber.Ctx) bool {
	return c.Path() == "/healthz"
}

func PerClientKeyExtractor(prefix string) func(c fiber.Ctx) string {
	return func(c fiber.Ctx) string {
		if clientID := ClientIDFromContext(c); clientID != "" {
			return prefix + ":client:" + clientID
		}
		return prefix + ":ip:" + c.IP()
	}
}

func PerIPKeyExtractor(prefix string) func(c fiber.Ctx) string {
	return func(c fiber.Ctx) string {
		return prefix + ":ip:" + c.IP()
	}
}

// BatchCost charges a batch request its requested count. Bodies that do not
// decode cost a single unit and are rejected later by the handler.
func BatchCost(c fiber.Ctx) int64 {
	var body struct {
		Count int64 `json:"count"`
	}
	if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil || body.Count < 1 {
		return 1
	}
	return body.Count
}
