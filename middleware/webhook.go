package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// StripeWebhookAuth verifies the HMAC-SHA256 signature Stripe attaches to
// webhook payloads. Verification is skipped in sandbox/dev mode, mirroring
// how the gateway test environments behave.
func StripeWebhookAuth() gin.HandlerFunc {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		panic("STRIPE_WEBHOOK_SECRET is not set")
	}

	mode := strings.ToLower(os.Getenv("PAYMENT_MODE"))

	return func(c *gin.Context) {
		if mode == "sandbox" || mode == "dev" {
			log.Println("Sandbox/dev mode: skipping Stripe webhook signature verification")
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook body"})
			c.Abort()
			return
		}
		// Handlers downstream still need the body.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		provided := c.GetHeader("Stripe-Signature")
		if idx := strings.Index(provided, "v1="); idx >= 0 {
			provided = provided[idx+3:]
		}
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		calculated := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(calculated), []byte(strings.ToLower(provided))) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
