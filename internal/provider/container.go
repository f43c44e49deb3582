package provider

import (
	"time"

	"github.com/foodhub-next/internal/authz"
	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Lease       cache.Lease

	// Repositories
	UserRepo       repository.UserRepository
	SupplierRepo   repository.SupplierRepository
	PartnerRepo    repository.PartnerRepository
	ProductRepo    repository.ProductRepository
	OrderRepo      repository.OrderRepository
	SettlementRepo repository.SettlementRepository
	WithdrawalRepo repository.WithdrawalRepository
	SettingRepo    repository.SettingRepository
	DashboardRepo  repository.DashboardRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	AccountService    *service.AccountService
	SettingService    *service.SettingService
	SupplierService   *service.SupplierService
	PartnerService    *service.PartnerService
	ProductService    *service.ProductService
	QueueGate         *service.SupplierQueueGate
	OrderService      *service.OrderService
	SettlementService *service.SettlementService
	WithdrawalService *service.WithdrawalService
	DashboardService  *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Lease:       cache.NewLease(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SupplierRepo = repository.NewSupplierRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SettlementRepo = repository.NewSettlementRepository(db)
	c.WithdrawalRepo = repository.NewWithdrawalRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	if _, err := c.SettingService.GetConfigRules(); err != nil {
		logger.Warnw("provider_load_revenue_rules_failed", "error", err)
	}

	leaseTTL := time.Duration(c.Config.Supplier.LeaseTTLSeconds) * time.Second
	c.QueueGate = service.NewSupplierQueueGate(c.OrderRepo, c.SupplierRepo, c.Lease, leaseTTL)

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.AccountService = service.NewAccountService(c.AuthService, c.UserRepo, c.SupplierRepo, c.PartnerRepo, c.AuthzService)
	c.SupplierService = service.NewSupplierService(c.SupplierRepo)
	c.PartnerService = service.NewPartnerService(c.PartnerRepo, c.WithdrawalRepo, c.SettingService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.SupplierRepo, c.PartnerRepo, c.SettingService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.SupplierRepo, c.PartnerRepo, c.SettingService, c.QueueGate, c.QueueClient)
	c.SettlementService = service.NewSettlementService(c.SettlementRepo, c.OrderRepo, c.SupplierRepo, c.QueueClient)
	c.WithdrawalService = service.NewWithdrawalService(c.WithdrawalRepo, c.PartnerRepo, c.SettingService, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, time.Duration(c.Config.Dashboard.CacheTTLSeconds)*time.Second)
}
