package supplier

import (
	"strings"

	"github.com/foodhub-next/internal/constants"
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态流转请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// GetQueue 当前备餐订单与排队数量
func (h *Handler) GetQueue(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	view, err := h.OrderService.SupplierQueue(supplier.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, view)
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	createdFrom, err := handlershared.ParseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := handlershared.ParseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:             page,
		PageSize:         pageSize,
		SupplierID:       supplier.ID,
		Status:           constants.OrderStatus(strings.TrimSpace(c.Query("status"))),
		SettlementStatus: strings.TrimSpace(c.Query("settlement_status")),
		Code:             strings.TrimSpace(c.Query("code")),
		CreatedFrom:      createdFrom,
		CreatedTo:        createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 我的订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	order, err := h.OrderService.GetOrder(orderID, supplier.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 供应商推进订单状态
// 离开 pending 需经过排队准入，同一时刻仅一单进入备餐。
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	target := constants.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !target.Valid() {
		respondError(c, response.CodeBadRequest, "error.invalid_transition", nil)
		return
	}

	order, err := h.OrderService.UpdateStatus(c.Request.Context(), service.UpdateOrderStatusInput{
		OrderID:      orderID,
		TargetStatus: target,
		SupplierID:   supplier.ID,
		Reason:       req.Reason,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, order)
}
