package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"
	"time"

	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	headerWebhookSignature = "X-Webhook-Signature"
	headerWebhookTimestamp = "X-Webhook-Timestamp"

	// Events signed more than this long ago are rejected to bound replays.
	webhookTimestampSkew = 5 * time.Minute
)

// WebhookSignature authenticates payment events from the gateway. The
// signature is hex(HMAC-SHA256(secret, timestamp + "." + body)).
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(headerWebhookSignature)
		timestamp := c.GetHeader(headerWebhookTimestamp)
		if signature == "" || timestamp == "" {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}
		drift := time.Since(time.Unix(ts, 0))
		if drift > webhookTimestampSkew || drift < -webhookTimestampSkew {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("Unable to read request body"))
			c.Abort()
			return
		}
		// The handler still needs to bind the body.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !verifySignature(secret, timestamp, body, signature) {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		c.Next()
	}
}

func verifySignature(secret, timestamp string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
