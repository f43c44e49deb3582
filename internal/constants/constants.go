package constants

// OrderStatus 订单履约状态（封闭枚举）
type OrderStatus string

// 订单状态常量
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusInDelivery     OrderStatus = "in_delivery"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// AllOrderStatuses 全部订单状态，按履约顺序排列
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusInDelivery,
	OrderStatusReadyForPickup,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid 判断状态是否属于枚举
func (s OrderStatus) Valid() bool {
	for _, item := range AllOrderStatuses {
		if item == s {
			return true
		}
	}
	return false
}

// ActiveOrderStatuses 占用供应商产能的状态（参与排队）
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusInDelivery,
	OrderStatusReadyForPickup,
}

// SettleableOrderStatuses 可纳入结算的状态
var SettleableOrderStatuses = []OrderStatus{
	OrderStatusDelivered,
	OrderStatusCompleted,
}

// PromoStatus 推广佣金状态（封闭枚举）
type PromoStatus string

// 推广佣金状态常量
const (
	PromoStatusPending   PromoStatus = "pending"
	PromoStatusValidated PromoStatus = "validated"
)

// 订单结算状态常量
const (
	SettlementStatusUnpaid = "unpaid"
	SettlementStatusPaid   = "paid"
)

// 配送方式常量
const (
	FulfillmentTypeDelivery = "delivery"
	FulfillmentTypePickup   = "pickup"
)

// 结算单状态常量
const (
	SettlementPending  = "pending"
	SettlementApproved = "approved"
	SettlementRejected = "rejected"
)

// 提现状态常量
const (
	WithdrawStatusPendingReview = "pending_review"
	WithdrawStatusPaid          = "paid"
	WithdrawStatusRejected      = "rejected"
)

// 提现审核动作
const (
	WithdrawReviewActionPay    = "pay"
	WithdrawReviewActionReject = "reject"
)

// 商品状态常量
const (
	ProductStatusPendingValidation = "pending_validation"
	ProductStatusActive            = "active"
	ProductStatusRejected          = "rejected"
	ProductStatusInactive          = "inactive"
)

// 供应商状态常量
const (
	SupplierStatusActive    = "active"
	SupplierStatusSuspended = "suspended"
)

// 账号角色常量
const (
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
	RolePartner  = "partner"
)

// 账号状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 推广钱包流水类型
const (
	PartnerTxnTypeCommission = "commission"
	PartnerTxnTypeWithdraw   = "withdraw"
)

// 推广钱包流水方向
const (
	PartnerTxnDirectionIn  = "in"
	PartnerTxnDirectionOut = "out"
)

// 设置键
const (
	SettingKeyRevenueRules = "revenue_rules"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderStatusChanged = "order:status_changed"
	TaskOrderAutoComplete  = "order:auto_complete"
	TaskSettlementReviewed = "settlement:reviewed"
	TaskWithdrawalReviewed = "withdrawal:reviewed"
)

// Redis 事件频道（不含前缀）
const (
	EventChannelOrders  = "events:orders"
	EventChannelFinance = "events:finance"
)
