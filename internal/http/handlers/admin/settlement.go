package admin

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// RejectSettlementRequest 驳回结算声明
type RejectSettlementRequest struct {
	Reason string `json:"reason"`
}

// ListSettlements 结算单列表
func (h *Handler) ListSettlements(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.SettlementService.ListSettlements(repository.SettlementListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: handlershared.ParseQueryUint(c, "supplier_id"),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// GetSettlement 结算单详情
func (h *Handler) GetSettlement(c *gin.Context) {
	settlementID, ok := pathID(c, "id")
	if !ok {
		return
	}
	settlement, err := h.SettlementService.GetSettlement(settlementID, 0)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, settlement)
}

// ApproveSettlement 审核通过并核销订单
func (h *Handler) ApproveSettlement(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	settlementID, ok := pathID(c, "id")
	if !ok {
		return
	}
	settlement, err := h.SettlementService.ApproveSettlement(settlementID, adminID)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, settlement)
}

// RejectSettlement 驳回结算声明
func (h *Handler) RejectSettlement(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	settlementID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RejectSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	settlement, err := h.SettlementService.RejectSettlement(settlementID, adminID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, settlement)
}
