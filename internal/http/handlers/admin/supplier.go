package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateSupplierStatusRequest 暂停/恢复供应商
type UpdateSupplierStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminSupplierDetail 供应商详情与应付概览
type AdminSupplierDetail struct {
	Supplier *models.Supplier        `json:"supplier"`
	Wallet   *service.SupplierWallet `json:"wallet"`
}

// ListSuppliers 供应商列表
func (h *Handler) ListSuppliers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	hasDebt, _ := strconv.ParseBool(strings.TrimSpace(c.Query("has_debt")))
	suppliers, total, err := h.SupplierService.ListSuppliers(repository.SupplierListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		HasDebt:  hasDebt,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, suppliers, response.NewPagination(page, pageSize, total))
}

// GetSupplier 供应商详情
func (h *Handler) GetSupplier(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.SupplierService.GetSupplier(supplierID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	wallet, err := h.SettlementService.GetSupplierWallet(supplier.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, AdminSupplierDetail{Supplier: supplier, Wallet: wallet})
}

// UpdateSupplierStatus 暂停/恢复供应商
func (h *Handler) UpdateSupplierStatus(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateSupplierStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	supplier, err := h.SupplierService.UpdateStatus(supplierID, req.Status)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, supplier)
}
