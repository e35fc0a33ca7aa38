package api

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/internal/ratelimit"
)

const maxKeyPeekBytes = 4 << 10

// KeyFunc derives a rate-limit key from the incoming request.
type KeyFunc func(*gin.Context) string

// RateLimit rejects requests once the caller's window is exhausted.
func RateLimit(limiter *ratelimit.Limiter, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := limiter.Allow(keyFn(c))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			TooManyRequestsResponse(c, res.RetryAfter)
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP keys a limiter by client address alone.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return c.ClientIP()
	}
}

// KeyByIPAndBodyField keys a limiter by client address plus a string field
// peeked from the JSON body, so rotating accounts from one address and one
// account across addresses both count against a limit. The body is restored
// for the handler; oversized or non-JSON bodies fall back to the address.
func KeyByIPAndBodyField(field string) KeyFunc {
	return func(c *gin.Context) string {
		ip := c.ClientIP()
		if c.Request == nil || c.Request.Body == nil {
			return ip
		}
		if c.Request.ContentLength > maxKeyPeekBytes {
			return ip
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ip
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err != nil {
			return ip
		}
		value, ok := body[field].(string)
		if !ok || value == "" {
			return ip
		}
		return ip + "|" + strings.ToLower(strings.TrimSpace(value))
	}
}
