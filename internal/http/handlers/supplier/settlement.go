package supplier

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// DeclareSettlementRequest 结算声明请求
type DeclareSettlementRequest struct {
	Amount         models.Money `json:"amount"`
	TransactionRef string       `json:"transaction_ref" binding:"required"`
}

// GetWallet 应付平台概览
func (h *Handler) GetWallet(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	wallet, err := h.SettlementService.GetSupplierWallet(supplier.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, wallet)
}

// DeclareSettlement 提交结算声明
func (h *Handler) DeclareSettlement(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	var req DeclareSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	settlement, err := h.SettlementService.DeclareSettlement(service.DeclareSettlementInput{
		SupplierID:     supplier.ID,
		Amount:         req.Amount,
		TransactionRef: req.TransactionRef,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, settlement)
}

// ListSettlements 我的结算单
func (h *Handler) ListSettlements(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	settlements, total, err := h.SettlementService.ListSettlements(repository.SettlementListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: supplier.ID,
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, settlements, response.NewPagination(page, pageSize, total))
}

// GetSettlement 我的结算单详情
func (h *Handler) GetSettlement(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	settlementID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	settlement, err := h.SettlementService.GetSettlement(settlementID, supplier.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, settlement)
}
