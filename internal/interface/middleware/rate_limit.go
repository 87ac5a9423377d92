package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath returns a key function that limits by client IP and route pattern
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByBucket shares one counter per client IP across every route in bucket,
// e.g. both verify endpoints draw from "verify".
func KeyByBucket(bucket string) KeyFunc {
	return func(c *gin.Context) string {
		return "rl:" + bucket + ":ip:" + ipFromCtx(c)
	}
}

// Counts a hit and returns {count, pttl}. The window starts on the first hit.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type AllowFunc func(*gin.Context) bool // return true for bypass limit

type window struct {
	count int
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, span time.Duration) (window, error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, span.Milliseconds()).Slice()
	if err != nil {
		return window{}, err
	}
	w := window{}
	if len(res) > 0 {
		w.count = toInt(res[0])
	}
	if len(res) > 1 {
		if ms := toInt(res[1]); ms > 0 {
			w.reset = time.Duration(ms) * time.Millisecond
		}
	}
	return w, nil
}

func (w window) resetSeconds() int {
	return int((w.reset + time.Second - 1) / time.Second)
}

// RateLimit counts requests per key in a fixed Redis window and rejects with
// 429 once limit is exceeded. OPTIONS and allow-listed requests pass through.
// Redis errors fail open.
func RateLimit(rdb *redis.Client, limit int, span time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || span <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limitHdr := strconv.Itoa(limit)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		w, err := hit(c, rdb, keyFn(c), span)
		if err != nil {
			c.Next()
			return
		}

		reset := w.resetSeconds()
		c.Header("X-RateLimit-Limit", limitHdr)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-w.count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if w.count <= limit {
			c.Next()
			return
		}
		if reset > 0 {
			c.Header("Retry-After", strconv.Itoa(reset))
		}
		response.Fail(c, http.StatusTooManyRequests, "rate limit exceeded", "rate_limited", nil)
	}
}

func toInt(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
