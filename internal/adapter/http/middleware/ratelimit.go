package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "vendor-settlement-service/internal/adapter/storage/redis"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule describes one fixed-window limit.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules are the per-endpoint-group limits.
var DefaultRateLimitRules = map[string]RateLimitRule{
	"withdrawal_submit": {Limit: 10, Window: time.Minute},
	"ledger_read":       {Limit: 60, Window: time.Minute},
	"admin":             {Limit: 120, Window: time.Minute},
	"webhook":           {Limit: 300, Window: time.Minute},
}

// RateLimiter enforces a fixed-window limit keyed by the authenticated
// subject, falling back to client IP for unauthenticated routes. Store
// failures fail open: limiting is protection, not a dependency.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", group, extractIdentifier(c))

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit store unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractIdentifier(c *gin.Context) string {
	if id, ok := SubjectID(c); ok {
		return id.String()
	}
	return c.ClientIP()
}
