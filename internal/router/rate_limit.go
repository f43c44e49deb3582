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

	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/i18n"
	"github.com/foodhub-next/internal/logger"

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
	// BlockSeconds 超限后 key 的封禁时长，0 表示仅等待窗口过期
	BlockSeconds int
	MessageKey   string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) redisKey(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return r.Prefix + ":" + raw
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// retryAfter 超限时提示的等待秒数，TTL 异常时退回窗口长度
func (r RateLimitRule) retryAfter(ttlSeconds int64) int {
	wait := int(ttlSeconds)
	if wait < 1 {
		wait = r.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return wait
}

// KEYS[1]=计数 key，ARGV = 窗口秒数 / 上限 / 封禁秒数
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local block = tonumber(ARGV[3])
if current > tonumber(ARGV[2]) and block > 0 then
	local remaining = redis.call("TTL", KEYS[1])
	if remaining < block then
		redis.call("EXPIRE", KEYS[1], block)
	end
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

var errRateLimitReply = errors.New("unexpected rate limit script reply")

func evalRateLimit(ctx context.Context, client *redis.Client, key string, rule RateLimitRule) (count, ttl int64, err error) {
	result, err := rateLimitScript.Run(ctx, client, []string{key}, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, errRateLimitReply
	}
	count, ok = toInt64(values[0])
	if !ok {
		return 0, 0, errRateLimitReply
	}
	ttl, _ = toInt64(values[1])
	return count, ttl, nil
}

// RateLimitMiddleware Redis 限流中间件，未启用 Redis 时直接放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
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
		key := rule.redisKey(raw)

		count, ttl, err := evalRateLimit(c.Request.Context(), client, key, rule)
		if err != nil {
			logger.Warnw("rate_limit_eval_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if count > int64(rule.MaxRequests) {
			wait := rule.retryAfter(ttl)
			c.Header("Retry-After", strconv.Itoa(wait))
			response.TooManyRequests(c, i18n.Sprintf(i18n.ResolveLocale(c), rule.messageKey(), wait))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段 + IP 限流（如登录用户名），字段缺失时退回 IP
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(readJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

// readJSONField 读取请求体中的字符串字段，读取后回填 Body 供后续绑定
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

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
