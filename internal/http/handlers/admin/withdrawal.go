package admin

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewWithdrawalRequest 提现审核请求，action 为 pay / reject
type ReviewWithdrawalRequest struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

// ListWithdrawals 提现申请列表
func (h *Handler) ListWithdrawals(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.WithdrawalService.ListWithdrawals(repository.WithdrawalListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: handlershared.ParseQueryUint(c, "partner_id"),
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// GetWithdrawal 提现申请详情
func (h *Handler) GetWithdrawal(c *gin.Context) {
	withdrawalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	withdrawal, err := h.WithdrawalService.GetWithdrawal(withdrawalID, 0)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, withdrawal)
}

// ReviewWithdrawal 审核提现：打款扣减余额或驳回
func (h *Handler) ReviewWithdrawal(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	withdrawalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	withdrawal, err := h.WithdrawalService.ReviewWithdrawal(service.ReviewWithdrawalInput{
		WithdrawalID: withdrawalID,
		AdminID:      adminID,
		Action:       req.Action,
		Reason:       req.Reason,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, withdrawal)
}
