package worker

import (
	"context"
	"errors"
	"time"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// Sweeper 定时扫描送达超时的订单并自动完成
// 队列可用时逐单投递任务，否则在进程内直接处理。
type Sweeper struct {
	consumer  *Consumer
	interval  time.Duration
	after     time.Duration
	batchSize int
	now       func() time.Time
}

// NewSweeper 创建自动完成扫描服务，after 为 0 时返回 nil
func NewSweeper(cfg config.OrderConfig, consumer *Consumer) *Sweeper {
	if cfg.AutoCompleteAfterHours <= 0 || consumer == nil {
		return nil
	}
	interval := time.Duration(cfg.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	batch := cfg.SweepBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{
		consumer:  consumer,
		interval:  interval,
		after:     time.Duration(cfg.AutoCompleteAfterHours) * time.Hour,
		batchSize: batch,
		now:       time.Now,
	}
}

// Name 服务名称
func (s *Sweeper) Name() string {
	return "auto-complete-sweeper"
}

// Start 启动扫描循环，ctx 结束时返回
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("sweeper not initialized")
	}
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 停止扫描
func (s *Sweeper) Stop(ctx context.Context) error {
	return nil
}

func (s *Sweeper) runOnce(ctx context.Context) {
	dispatched, err := s.Sweep(ctx)
	if err != nil {
		logger.Warnw("worker_auto_complete_sweep_failed", "error", err)
		return
	}
	if dispatched > 0 {
		logger.Infow("worker_auto_complete_sweep_done", "orders", dispatched)
	}
}

// Sweep 执行一次扫描，返回投递或完成的订单数
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	orderService := s.consumer.OrderService
	if orderService == nil {
		return 0, errors.New("order service not initialized")
	}
	before := s.now().Add(-s.after)
	queueClient := s.consumer.QueueClient
	if !queueClient.Enabled() {
		return orderService.AutoCompleteDelivered(ctx, before, s.batchSize)
	}

	orders, err := orderService.ListDeliveredBefore(before, s.batchSize)
	if err != nil {
		return 0, err
	}
	dispatched := 0
	for _, order := range orders {
		if err := queueClient.EnqueueOrderAutoComplete(queue.OrderAutoCompletePayload{OrderID: order.ID}); err != nil {
			logger.Warnw("worker_auto_complete_enqueue_failed", "order_id", order.ID, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}
