package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/foodhub-next/internal/authz"
	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/config"
	adminhandlers "github.com/foodhub-next/internal/http/handlers/admin"
	partnerhandlers "github.com/foodhub-next/internal/http/handlers/partner"
	publichandlers "github.com/foodhub-next/internal/http/handlers/public"
	supplierhandlers "github.com/foodhub-next/internal/http/handlers/supplier"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// 需要登录并经过 RBAC 判定的路由前缀
var protectedRoutePrefixes = []string{
	"/api/v1/me",
	"/api/v1/admin/",
	"/api/v1/supplier/",
	"/api/v1/partner/",
}

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按角色分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	supplierHandler := supplierhandlers.New(c)
	partnerHandler := partnerhandlers.New(c)

	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        cache.Key("rate:login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	checkoutRule := RateLimitRule{
		Prefix:        cache.Key("rate:checkout"),
		WindowSeconds: 60,
		MaxRequests:   20,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	authn := JWTAuthMiddleware(c.AuthService, c.UserRepo.GetByID)
	rbac := RBACMiddleware(c.AuthzService)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 登录
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		}

		// 当前账号
		me := apiV1.Group("/me", authn, rbac)
		{
			me.GET("", publicHandler.GetMe)
			me.PUT("/password", publicHandler.ChangePassword)
		}

		// 前台接口（无需登录）
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.POST("/benefits/preview", publicHandler.PreviewBenefit)
			public.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.Checkout)
			public.GET("/orders/:code", publicHandler.GetOrderByCode)
		}

		// 供应商接口
		supplier := apiV1.Group("/supplier", authn, rbac)
		{
			supplier.GET("/products", supplierHandler.ListProducts)
			supplier.POST("/products", supplierHandler.ProposeProduct)
			supplier.GET("/products/:id", supplierHandler.GetProduct)
			supplier.GET("/queue", supplierHandler.GetQueue)
			supplier.GET("/orders", supplierHandler.ListOrders)
			supplier.GET("/orders/:id", supplierHandler.GetOrder)
			supplier.POST("/orders/:id/status", supplierHandler.UpdateOrderStatus)
			supplier.GET("/wallet", supplierHandler.GetWallet)
			supplier.GET("/settlements", supplierHandler.ListSettlements)
			supplier.POST("/settlements", supplierHandler.DeclareSettlement)
			supplier.GET("/settlements/:id", supplierHandler.GetSettlement)
		}

		// 推广员接口
		partner := apiV1.Group("/partner", authn, rbac)
		{
			partner.GET("/profile", partnerHandler.GetProfile)
			partner.GET("/wallet/transactions", partnerHandler.ListTransactions)
			partner.GET("/withdrawals", partnerHandler.ListWithdrawals)
			partner.POST("/withdrawals", partnerHandler.ApplyWithdrawal)
			partner.GET("/withdrawals/:id", partnerHandler.GetWithdrawal)
		}

		// 管理员接口
		admin := apiV1.Group("/admin", authn, rbac)
		{
			// 仪表盘
			admin.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
			admin.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
			admin.GET("/dashboard/rankings", adminHandler.GetDashboardRankings)

			// 收益规则
			admin.GET("/settings/rules", adminHandler.GetRevenueRules)
			admin.PUT("/settings/rules", adminHandler.UpdateRevenueRules)

			// 商品审核
			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products/:id/validate", adminHandler.ValidateProduct)
			admin.POST("/products/:id/reject", adminHandler.RejectProduct)
			admin.POST("/products/:id/deactivate", adminHandler.DeactivateProduct)

			// 订单
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.POST("/orders/:id/status", adminHandler.UpdateOrderStatus)

			// 供应商与推广员
			admin.GET("/suppliers", adminHandler.ListSuppliers)
			admin.GET("/suppliers/:id", adminHandler.GetSupplier)
			admin.PUT("/suppliers/:id/status", adminHandler.UpdateSupplierStatus)
			admin.GET("/partners", adminHandler.ListPartners)
			admin.GET("/partners/:id", adminHandler.GetPartner)
			admin.PUT("/partners/:id/status", adminHandler.UpdatePartnerStatus)
			admin.GET("/partners/:id/transactions", adminHandler.ListPartnerTransactions)

			// 结算与提现
			admin.GET("/settlements", adminHandler.ListSettlements)
			admin.GET("/settlements/:id", adminHandler.GetSettlement)
			admin.POST("/settlements/:id/approve", adminHandler.ApproveSettlement)
			admin.POST("/settlements/:id/reject", adminHandler.RejectSettlement)
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.GET("/withdrawals/:id", adminHandler.GetWithdrawal)
			admin.POST("/withdrawals/:id/review", adminHandler.ReviewWithdrawal)

			// 账号
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/users/:id/roles", adminHandler.GetAuthzUserRoles)

			// 权限
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "redis": cache.Enabled()}
		if err := pingDatabase(); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		ctx.JSON(http.StatusOK, status)
	})

	return r
}

func pingDatabase() error {
	if models.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !isProtectedRoute(item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}

func isProtectedRoute(path string) bool {
	for _, prefix := range protectedRoutePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
