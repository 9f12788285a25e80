package middleware

import (
	"strings"
	"time"

	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context keys set by the middleware chain.
const (
	CtxRequestID = "request_id"
	CtxSubjectID = "subject_id" // uuid.UUID of the authenticated caller
	CtxRole      = "role"       // "vendor" or "admin"
)

// RequestID attaches a request id to the context and response headers,
// reusing the caller-provided X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info().
			Str("request_id", c.GetString(CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery converts panics into SYS_001 responses instead of crashing the
// process.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(CtxRequestID)).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("recovered from panic")
				response.Error(c, apperror.New("SYS_001", "Internal server error", 500))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JWTAuth validates the bearer token and stores the caller identity in the
// context. Tokens are issued by the platform identity provider.
func JWTAuth(tokens ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apperror.ErrUnauthenticated())
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, apperror.ErrUnauthenticated())
			c.Abort()
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxSubjectID, claims.SubjectID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to a single role. Must run after JWTAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != role {
			response.Error(c, apperror.ErrForbidden())
			c.Abort()
			return
		}
		c.Next()
	}
}

// SubjectID returns the authenticated caller id from the context.
func SubjectID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxSubjectID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
