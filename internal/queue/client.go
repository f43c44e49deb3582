package queue

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 资金相关任务队列
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// submit 构建并投递任务，未启用时静默跳过；重复任务视为成功
func submit[P any](c *Client, build func(P) (*asynq.Task, error), payload P, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := build(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

// EnqueueOrderStatusChanged 推送订单状态变更通知
func (c *Client) EnqueueOrderStatusChanged(payload OrderStatusChangedPayload, opts ...asynq.Option) error {
	return submit(c, NewOrderStatusChangedTask, payload, opts...)
}

// EnqueueOrderAutoComplete 推送自动完成任务，同一订单同一时刻仅保留一个
func (c *Client) EnqueueOrderAutoComplete(payload OrderAutoCompletePayload) error {
	return submit(c, NewOrderAutoCompleteTask, payload,
		asynq.Queue(CriticalQueue),
		asynq.TaskID(fmt.Sprintf("auto-complete:%d", payload.OrderID)),
		asynq.MaxRetry(3),
	)
}

func (c *Client) EnqueueSettlementReviewed(payload SettlementReviewedPayload) error {
	return submit(c, NewSettlementReviewedTask, payload, asynq.Queue(CriticalQueue))
}

func (c *Client) EnqueueWithdrawalReviewed(payload WithdrawalReviewedPayload) error {
	return submit(c, NewWithdrawalReviewedTask, payload, asynq.Queue(CriticalQueue))
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, CriticalQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	if cfg == nil {
		return asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
