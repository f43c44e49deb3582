package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidAmount = errors.New("invalid amount")
)

// 收益规则
var (
	ErrRulesInvalid         = fmt.Errorf("%w: revenue rules invalid", ErrValidation)
	ErrMarginBelowBase      = fmt.Errorf("%w: margin below protected base margin", ErrValidation)
	ErrNegativePlatformGain = fmt.Errorf("%w: platform gain would be negative for some tier", ErrValidation)
)

// 商品
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNotActive     = errors.New("product is not active")
	ErrProductStatusInvalid = errors.New("product status does not allow this operation")
)

// 订单
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderItemsEmpty         = fmt.Errorf("%w: order items are empty", ErrValidation)
	ErrMixedSupplierItems      = fmt.Errorf("%w: order items belong to different suppliers", ErrValidation)
	ErrFulfillmentTypeInvalid  = fmt.Errorf("%w: fulfillment type invalid", ErrValidation)
	ErrInvalidTransition       = errors.New("invalid order status transition")
	ErrFulfillmentTypeMismatch = fmt.Errorf("%w: status does not match fulfillment type", ErrInvalidTransition)
	ErrOrderStatusConflict     = errors.New("order status changed concurrently")
	ErrPromoCodeInvalid        = errors.New("promo code invalid")
)

// 推广员
var (
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrPartnerUnavailable  = errors.New("partner missing or inactive, commission not payable")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrBelowMinimumPayout  = errors.New("amount below tier minimum payout")
)

// 提现
var (
	ErrWithdrawalNotFound          = errors.New("withdrawal not found")
	ErrWithdrawStatusInvalid       = errors.New("withdrawal status does not allow review")
	ErrWithdrawReviewActionInvalid = errors.New("withdrawal review action invalid")
	ErrWithdrawChannelRequired     = fmt.Errorf("%w: withdraw channel and account required", ErrValidation)
)

// 供应商
var (
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrSupplierSuspended = errors.New("supplier suspended")
	ErrSupplierBusy      = errors.New("supplier already has an order in progress")
	ErrOrderQueued       = errors.New("order is queued behind an earlier order")
)

// 结算
var (
	ErrSettlementNotFound     = errors.New("settlement not found")
	ErrSettlementNotPending   = errors.New("settlement already finalized")
	ErrSettlementRefDuplicate = errors.New("settlement transaction reference already declared")
	ErrReconciliationMismatch = errors.New("no unpaid delivered orders to reconcile for declared amount")
)

// 仪表盘
var (
	ErrDashboardRangeInvalid = fmt.Errorf("%w: dashboard range invalid", ErrValidation)
)

// 账号
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPasswordPolicy     = fmt.Errorf("%w: password does not satisfy policy", ErrValidation)
	ErrRoleInvalid        = fmt.Errorf("%w: role invalid", ErrValidation)
	ErrJWTSecretMissing   = errors.New("jwt secret not configured")
	ErrTokenInvalid       = errors.New("token invalid")
)
