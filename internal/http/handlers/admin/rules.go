package admin

import (
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetRevenueRules 获取收益规则
func (h *Handler) GetRevenueRules(c *gin.Context) {
	rules, err := h.SettingService.GetConfigRules()
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, rules)
}

// UpdateRevenueRules 整体替换收益规则，校验失败时保留原规则
func (h *Handler) UpdateRevenueRules(c *gin.Context) {
	var req service.ConfigRules
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	rules, err := h.SettingService.UpdateConfigRules(req)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	if adminID, ok := c.Get(handlershared.ContextKeyUserID); ok {
		requestLog(c).Infow("admin_revenue_rules_updated", "admin_id", adminID, "tiers", len(rules.Tiers))
	}
	response.Success(c, rules)
}
