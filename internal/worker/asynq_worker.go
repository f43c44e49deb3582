package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/provider"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusChanged, c.handleOrderStatusChanged)
	mux.HandleFunc(queue.TaskOrderAutoComplete, c.handleOrderAutoComplete)
	mux.HandleFunc(queue.TaskSettlementReviewed, c.handleSettlementReviewed)
	mux.HandleFunc(queue.TaskWithdrawalReviewed, c.handleWithdrawalReviewed)
}

// FinanceEvent 资金类事件，推送到 Redis 频道
type FinanceEvent struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_changed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_changed_skip_invalid_payload")
		return nil
	}
	logger.Infow("worker_order_status_changed",
		"order_id", payload.OrderID,
		"order_code", payload.OrderCode,
		"supplier_id", payload.SupplierID,
		"from", payload.From,
		"to", payload.To,
	)
	if err := cache.Publish(ctx, constants.EventChannelOrders, payload); err != nil {
		logger.Warnw("worker_order_status_changed_publish_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderAutoComplete(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.OrderService == nil {
		logger.Debugw("worker_order_auto_complete_skip_nil")
		return nil
	}
	var payload queue.OrderAutoCompletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_auto_complete_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	_, err := c.OrderService.UpdateStatus(ctx, service.UpdateOrderStatusInput{
		OrderID:      payload.OrderID,
		TargetStatus: constants.OrderStatusCompleted,
	})
	if err == nil {
		logger.Infow("worker_order_auto_completed", "order_id", payload.OrderID)
		return nil
	}
	// 订单已被手动推进或取消，任务无需重试
	if errors.Is(err, service.ErrOrderNotFound) ||
		errors.Is(err, service.ErrInvalidTransition) ||
		errors.Is(err, service.ErrOrderStatusConflict) {
		logger.Debugw("worker_order_auto_complete_skip", "order_id", payload.OrderID, "reason", err.Error())
		return nil
	}
	logger.Warnw("worker_order_auto_complete_failed", "order_id", payload.OrderID, "error", err)
	return err
}

func (c *Consumer) handleSettlementReviewed(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.SettlementReviewedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_settlement_reviewed_unmarshal_failed", "error", err)
		return err
	}
	if payload.SettlementID == 0 {
		return nil
	}
	logger.Infow("worker_settlement_reviewed",
		"settlement_id", payload.SettlementID,
		"supplier_id", payload.SupplierID,
		"status", payload.Status,
		"order_count", payload.OrderCount,
	)
	return publishFinanceEvent(ctx, queue.TaskSettlementReviewed, payload)
}

func (c *Consumer) handleWithdrawalReviewed(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WithdrawalReviewedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_withdrawal_reviewed_unmarshal_failed", "error", err)
		return err
	}
	if payload.WithdrawalID == 0 {
		return nil
	}
	logger.Infow("worker_withdrawal_reviewed",
		"withdrawal_id", payload.WithdrawalID,
		"partner_id", payload.PartnerID,
		"status", payload.Status,
		"amount", payload.Amount,
	)
	return publishFinanceEvent(ctx, queue.TaskWithdrawalReviewed, payload)
}

func publishFinanceEvent(ctx context.Context, kind string, payload interface{}) error {
	if err := cache.Publish(ctx, constants.EventChannelFinance, FinanceEvent{Kind: kind, Payload: payload}); err != nil {
		logger.Warnw("worker_finance_event_publish_failed", "kind", kind, "error", err)
		return err
	}
	return nil
}
