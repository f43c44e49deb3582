package app

import (
	"errors"
	"strings"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/provider"
	"github.com/foodhub-next/internal/router"
	"github.com/foodhub-next/internal/service"
	"github.com/foodhub-next/internal/worker"
)

// BuildRunner 按运行模式装配服务
func BuildRunner(cfg *config.Config, rawMode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(rawMode)
	if err != nil {
		return nil, err
	}
	opts := Options{Config: cfg, Mode: mode}

	container := provider.NewContainer(cfg)
	ensureBootstrapAdmin(container)

	var services []Service

	// HTTP
	if opts.runsHTTP() {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// 队列消费者与自动完成扫描
	if opts.runsWorker() {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Warnw("app_queue_disabled_worker_skipped", "mode", mode)
		}
		if sweeper := worker.NewSweeper(cfg.Order, consumer); sweeper != nil {
			services = append(services, sweeper)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// ensureBootstrapAdmin 首次启动时按配置创建管理员账号
func ensureBootstrapAdmin(c *provider.Container) {
	username := strings.TrimSpace(c.Config.Bootstrap.AdminUsername)
	password := c.Config.Bootstrap.AdminPassword
	if username == "" || password == "" {
		return
	}
	existing, err := c.UserRepo.GetByUsername(username)
	if err != nil {
		logger.Warnw("app_bootstrap_admin_lookup_failed", "username", username, "error", err)
		return
	}
	if existing != nil {
		return
	}
	created, err := c.AccountService.CreateAccount(service.CreateAccountInput{
		Username: username,
		Password: password,
		Role:     constants.RoleAdmin,
	})
	if err != nil {
		logger.Errorw("app_bootstrap_admin_failed", "username", username, "error", err)
		return
	}
	logger.Infow("app_bootstrap_admin_created", "user_id", created.User.ID, "username", username)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}
