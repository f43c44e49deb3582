package queue

import (
	"encoding/json"
	"time"

	"github.com/foodhub-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusChanged 订单状态变更通知任务
	TaskOrderStatusChanged = constants.TaskOrderStatusChanged
	// TaskOrderAutoComplete 送达超时自动完成任务
	TaskOrderAutoComplete = constants.TaskOrderAutoComplete
	// TaskSettlementReviewed 结算审核结果通知任务
	TaskSettlementReviewed = constants.TaskSettlementReviewed
	// TaskWithdrawalReviewed 提现审核结果通知任务
	TaskWithdrawalReviewed = constants.TaskWithdrawalReviewed
)

// OrderStatusChangedPayload 订单状态变更载荷
type OrderStatusChangedPayload struct {
	OrderID    uint      `json:"order_id"`
	OrderCode  string    `json:"order_code"`
	SupplierID uint      `json:"supplier_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Commission string    `json:"commission,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderAutoCompletePayload 自动完成任务载荷
type OrderAutoCompletePayload struct {
	OrderID uint `json:"order_id"`
}

// SettlementReviewedPayload 结算审核载荷
type SettlementReviewedPayload struct {
	SettlementID uint   `json:"settlement_id"`
	SupplierID   uint   `json:"supplier_id"`
	Status       string `json:"status"`
	OrderCount   int    `json:"order_count"`
	Amount       string `json:"amount"`
}

// WithdrawalReviewedPayload 提现审核载荷
type WithdrawalReviewedPayload struct {
	WithdrawalID uint   `json:"withdrawal_id"`
	PartnerID    uint   `json:"partner_id"`
	Status       string `json:"status"`
	Amount       string `json:"amount"`
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

// NewOrderStatusChangedTask 创建订单状态变更任务
func NewOrderStatusChangedTask(payload OrderStatusChangedPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderStatusChanged, payload)
}

// NewOrderAutoCompleteTask 创建自动完成任务
func NewOrderAutoCompleteTask(payload OrderAutoCompletePayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderAutoComplete, payload)
}

// NewSettlementReviewedTask 创建结算审核通知任务
func NewSettlementReviewedTask(payload SettlementReviewedPayload) (*asynq.Task, error) {
	return newJSONTask(TaskSettlementReviewed, payload)
}

// NewWithdrawalReviewedTask 创建提现审核通知任务
func NewWithdrawalReviewedTask(payload WithdrawalReviewedPayload) (*asynq.Task, error) {
	return newJSONTask(TaskWithdrawalReviewed, payload)
}
