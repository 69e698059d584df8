package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/i18n"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return fmt.Sprintf("%s:%s", r.Prefix, raw)
}

// 首次计数时设置过期，返回当前计数与剩余秒数
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

var errUnexpectedWindowReply = errors.New("unexpected rate limit reply")

// windowHit 单次计数结果
type windowHit struct {
	count int64
	ttl   int64
}

func countWindow(ctx context.Context, client *redis.Client, key string, windowSeconds int) (windowHit, error) {
	result, err := fixedWindowScript.Run(ctx, client, []string{key}, windowSeconds).Result()
	if err != nil {
		return windowHit{}, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return windowHit{}, errUnexpectedWindowReply
	}
	count, ok := toInt64(values[0])
	if !ok {
		return windowHit{}, errUnexpectedWindowReply
	}
	ttl, _ := toInt64(values[1])
	return windowHit{count: count, ttl: ttl}, nil
}

// RateLimitMiddleware 基于 Redis 的固定窗口限流。未配置 Redis 或规则关闭时直接放行，
// Redis 出错时拒绝请求。
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}

		hit, err := countWindow(c.Request.Context(), client, rule.key(raw), rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "prefix", rule.Prefix, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if hit.count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		wait := int(hit.ttl)
		if wait < 1 {
			wait = rule.WindowSeconds
		}
		msgKey := strings.TrimSpace(rule.MessageKey)
		if msgKey == "" {
			msgKey = "error.rate_limited"
		}
		m.ObserveLogin("throttled")
		c.Header("Retry-After", strconv.Itoa(wait))
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, wait))
		c.Abort()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 JSON 字段（小写）+ IP 作为限流 key，读取后恢复请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(readJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload map[string]interface{}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	text, _ := payload[field].(string)
	return strings.TrimSpace(text)
}

// Lua 整数在 go-redis 中解码为 int64，其余类型仅做兼容
func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
