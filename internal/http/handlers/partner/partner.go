package partner

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplyWithdrawalRequest 提现申请
type ApplyWithdrawalRequest struct {
	Amount  models.Money `json:"amount"`
	Channel string       `json:"channel" binding:"required"`
	Account string       `json:"account" binding:"required"`
}

// GetProfile 推广档案：等级进度、余额与最低提现额
func (h *Handler) GetProfile(c *gin.Context) {
	partner, ok := h.currentPartner(c)
	if !ok {
		return
	}
	profile, err := h.PartnerService.GetProfile(partner.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, profile)
}

// ListTransactions 钱包流水
func (h *Handler) ListTransactions(c *gin.Context) {
	partner, ok := h.currentPartner(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.PartnerService.ListTransactions(repository.PartnerTransactionListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partner.ID,
		Type:      strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// ApplyWithdrawal 提交提现申请
func (h *Handler) ApplyWithdrawal(c *gin.Context) {
	partner, ok := h.currentPartner(c)
	if !ok {
		return
	}
	var req ApplyWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	withdrawal, err := h.WithdrawalService.ApplyWithdrawal(service.ApplyWithdrawalInput{
		PartnerID: partner.ID,
		Amount:    req.Amount,
		Channel:   req.Channel,
		Account:   req.Account,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, withdrawal)
}

// ListWithdrawals 我的提现记录
func (h *Handler) ListWithdrawals(c *gin.Context) {
	partner, ok := h.currentPartner(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.WithdrawalService.ListWithdrawals(repository.WithdrawalListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partner.ID,
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// GetWithdrawal 提现详情
func (h *Handler) GetWithdrawal(c *gin.Context) {
	partner, ok := h.currentPartner(c)
	if !ok {
		return
	}
	withdrawalID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	withdrawal, err := h.WithdrawalService.GetWithdrawal(withdrawalID, partner.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, withdrawal)
}
