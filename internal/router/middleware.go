package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/foodhub-next/internal/authz"
	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/config"
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/i18n"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

const slowRequestThreshold = time.Second

// LoggerMiddleware 请求访问日志，慢请求单独以 warn 级别输出
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	sugar := base.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := c.Get(handlershared.ContextKeyUserID); ok {
			fields = append(fields, "user_id", userID, "role", c.GetString(handlershared.ContextKeyRole))
		}
		switch {
		case len(c.Errors) > 0:
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
		case latency >= slowRequestThreshold:
			sugar.Warnw("request_slow", fields...)
		default:
			sugar.Infow("request", fields...)
		}
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// TokenParser 解析并校验登录 token
type TokenParser interface {
	ParseJWT(tokenString string) (*service.JWTClaims, error)
}

// JWTAuthMiddleware 登录态校验
// 签名通过后再核对账号快照（Redis 优先，未命中回源数据库）：账号须启用，token 版本与失效时间须匹配。
func JWTAuthMiddleware(tokens TokenParser, loadUser cache.UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		tokenString, key := bearerToken(c.GetHeader("Authorization"))
		if key != "" {
			abortUnauthorized(c, key)
			return
		}
		claims, err := tokens.ParseJWT(tokenString)
		if err != nil {
			if errors.Is(err, service.ErrJWTSecretMissing) {
				abortUnauthorized(c, "error.jwt_secret_missing")
				return
			}
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		state, err := cache.LoadUserAuthState(c.Request.Context(), claims.UserID, loadUser)
		if err != nil || state == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if !state.Active() {
			abortUnauthorized(c, "error.user_disabled")
			return
		}
		var issuedAt *time.Time
		if claims.IssuedAt != nil {
			issuedAt = &claims.IssuedAt.Time
		}
		if !state.Accepts(claims.TokenVersion, issuedAt) {
			abortUnauthorized(c, "error.token_revoked")
			return
		}

		setAuthContext(c, state.UserID, state.Username, state.Role)
		c.Next()
	}
}

// bearerToken 提取 Bearer token，失败时返回错误文案 key
func bearerToken(header string) (string, string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "error.auth_header_missing"
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "error.auth_header_invalid"
	}
	return token, ""
}

// RBACMiddleware 路由级授权
// 资源取路由模板（如 /supplier/orders/:id），动作为 HTTP 方法，须在 JWTAuthMiddleware 之后挂载。
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get(handlershared.ContextKeyUserID)
		uid, _ := userID.(uint)
		if uid == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceUser(uid, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"user_id", uid,
				"method", c.Request.Method,
				"resource", resource,
				"error", err,
			)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"user_id", uid,
				"role", c.GetString(handlershared.ContextKeyRole),
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setAuthContext(c *gin.Context, userID uint, username, role string) {
	c.Set(handlershared.ContextKeyUserID, userID)
	c.Set(handlershared.ContextKeyUsername, username)
	c.Set(handlershared.ContextKeyRole, role)
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}
