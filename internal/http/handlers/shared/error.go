package shared

import (
	"errors"

	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/i18n"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 按规则顺序匹配业务错误，未命中时记录原始错误并返回兜底响应
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// localizedError 自带文案 key 与参数的业务错误（如密码策略）
type localizedError interface {
	Key() string
	Args() []interface{}
}

// RespondServiceError 使用默认业务错误表返回错误响应
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	var localized localizedError
	if errors.As(err, &localized) && localized.Key() != "" {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), localized.Key(), localized.Args()...)
		response.Error(c, response.CodeBadRequest, msg)
		return
	}
	RespondWithMappedError(c, err, DomainErrorRules, response.CodeInternal, fallbackKey)
}

// DomainErrorRules 默认业务错误表
// 包装错误需排在其父错误之前。
var DomainErrorRules = []MappedError{
	{Target: service.ErrRulesInvalid, Code: response.CodeBadRequest, Key: "error.rules_invalid"},
	{Target: service.ErrMarginBelowBase, Code: response.CodeBadRequest, Key: "error.margin_below_base"},
	{Target: service.ErrNegativePlatformGain, Code: response.CodeBadRequest, Key: "error.negative_platform_gain"},
	{Target: service.ErrOrderItemsEmpty, Code: response.CodeBadRequest, Key: "error.order_items_empty"},
	{Target: service.ErrMixedSupplierItems, Code: response.CodeBadRequest, Key: "error.mixed_supplier_items"},
	{Target: service.ErrFulfillmentTypeInvalid, Code: response.CodeBadRequest, Key: "error.fulfillment_type_invalid"},
	{Target: service.ErrWithdrawChannelRequired, Code: response.CodeBadRequest, Key: "error.withdraw_channel_required"},
	{Target: service.ErrDashboardRangeInvalid, Code: response.CodeBadRequest, Key: "error.dashboard_range_invalid"},
	{Target: service.ErrPasswordPolicy, Code: response.CodeBadRequest, Key: "error.password_policy"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.validation_failed"},
	{Target: service.ErrInvalidAmount, Code: response.CodeBadRequest, Key: "error.amount_invalid"},

	{Target: service.ErrFulfillmentTypeMismatch, Code: response.CodeConflict, Key: "error.fulfillment_type_mismatch"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.invalid_transition"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.order_status_conflict"},
	{Target: service.ErrOrderQueued, Code: response.CodeConflict, Key: "error.order_queued"},
	{Target: service.ErrSupplierBusy, Code: response.CodeConflict, Key: "error.supplier_busy"},
	{Target: service.ErrSupplierSuspended, Code: response.CodeForbidden, Key: "error.supplier_suspended"},
	{Target: service.ErrProductNotActive, Code: response.CodeBadRequest, Key: "error.product_not_active"},
	{Target: service.ErrProductStatusInvalid, Code: response.CodeConflict, Key: "error.product_status_invalid"},
	{Target: service.ErrPromoCodeInvalid, Code: response.CodeBadRequest, Key: "error.promo_code_invalid"},
	{Target: service.ErrPartnerUnavailable, Code: response.CodeConflict, Key: "error.partner_unavailable"},
	{Target: service.ErrInsufficientBalance, Code: response.CodeBadRequest, Key: "error.insufficient_balance"},
	{Target: service.ErrBelowMinimumPayout, Code: response.CodeBadRequest, Key: "error.below_minimum_payout"},
	{Target: service.ErrWithdrawStatusInvalid, Code: response.CodeConflict, Key: "error.withdraw_status_invalid"},
	{Target: service.ErrWithdrawReviewActionInvalid, Code: response.CodeBadRequest, Key: "error.withdraw_action_invalid"},
	{Target: service.ErrSettlementNotPending, Code: response.CodeConflict, Key: "error.settlement_not_pending"},
	{Target: service.ErrSettlementRefDuplicate, Code: response.CodeConflict, Key: "error.settlement_ref_duplicate"},
	{Target: service.ErrReconciliationMismatch, Code: response.CodeConflict, Key: "error.reconciliation_mismatch"},
	{Target: service.ErrUsernameTaken, Code: response.CodeConflict, Key: "error.username_taken"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},

	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrPartnerNotFound, Code: response.CodeNotFound, Key: "error.partner_not_found"},
	{Target: service.ErrSupplierNotFound, Code: response.CodeNotFound, Key: "error.supplier_not_found"},
	{Target: service.ErrSettlementNotFound, Code: response.CodeNotFound, Key: "error.settlement_not_found"},
	{Target: service.ErrWithdrawalNotFound, Code: response.CodeNotFound, Key: "error.withdrawal_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}
