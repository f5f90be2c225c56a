package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"zapcrm/pkg/respond"
)

// maxWebhookBody caps webhook payload size before the body is buffered.
const maxWebhookBody = 1 << 20

// WebhookSignature verifies an HMAC-SHA256 signature over the raw request
// body. The signature header may carry a "sha256=" prefix. When no secret is
// configured, a static fallback token on the webhook's own header is accepted
// instead; with neither configured the webhook is open.
//
// The body is restored after reading so downstream handlers can bind it.
func WebhookSignature(secret, fallbackToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" && fallbackToken == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			respond.Fail(c, 400, "unreadable body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if secret != "" {
			sig := c.GetHeader("X-Chatwoot-Signature")
			if sig == "" {
				sig = c.GetHeader("X-Hub-Signature-256")
			}
			if verifySignature(secret, body, sig) {
				c.Next()
				return
			}
			respond.Fail(c, 401, "invalid webhook signature")
			c.Abort()
			return
		}

		presented := c.GetHeader("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(fallbackToken)) != 1 {
			respond.Fail(c, 401, "invalid webhook token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func verifySignature(secret string, body []byte, headerSig string) bool {
	headerSig = strings.TrimSpace(headerSig)
	headerSig = strings.TrimPrefix(headerSig, "sha256=")
	if headerSig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(headerSig), []byte(expected))
}
