package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis     *redis.Client
	perMinute int
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &RateLimiter{redis: redisClient, perMinute: perMinute}
}

// SubmitGuard rate limits candidate-initiated submissions (interest and
// applications) with a fixed one-minute window per user or IP. Reads
// are never limited.
func (r *RateLimiter) SubmitGuard() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identifier := clientIdentifier(e)
		key := fmt.Sprintf("ratelimit:submit:%s", identifier)

		count, err := r.redis.Incr(context.Background(), key).Result()
		if err == nil {
			if count == 1 {
				r.redis.Expire(context.Background(), key, time.Minute)
			}
			if count > int64(r.perMinute) {
				return apis.NewApiError(http.StatusTooManyRequests,
					"Too many submissions. Please try again later.", nil)
			}
		}

		return e.Next()
	}
}

func clientIdentifier(e *core.RequestEvent) string {
	if e.Auth != nil {
		return "user:" + e.Auth.Id
	}
	if fwd := e.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return "ip:" + strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(e.Request.RemoteAddr)
	if err != nil {
		return "ip:" + e.Request.RemoteAddr
	}
	return "ip:" + host
}

// OpsRateLimit protects the ops server endpoints.
func (r *RateLimiter) OpsRateLimit() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: &redisStore{redis: r.redis, limit: r.perMinute},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// Anti-bot protection for the ops server.
func (r *RateLimiter) AntiBotMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userAgent := c.Request().Header.Get("User-Agent")
			if isSuspiciousUserAgent(userAgent) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Access denied",
				})
			}
			return next(c)
		}
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}

// redisStore adapts the fixed-window redis counter to echo's rate
// limiter store.
type redisStore struct {
	redis *redis.Client
	limit int
}

func (s *redisStore) Allow(identifier string) (bool, error) {
	key := fmt.Sprintf("ratelimit:ops:%s", identifier)
	count, err := s.redis.Incr(context.Background(), key).Result()
	if err != nil {
		// Fail open: the ops server should not go dark because redis
		// hiccuped.
		return true, nil
	}
	if count == 1 {
		s.redis.Expire(context.Background(), key, time.Minute)
	}
	return count <= int64(s.limit), nil
}
