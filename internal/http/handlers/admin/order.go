package admin

import (
	"strings"

	"github.com/foodhub-next/internal/constants"
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUpdateOrderStatusRequest 管理端订单状态流转
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
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
		SupplierID:       handlershared.ParseQueryUint(c, "supplier_id"),
		PartnerID:        handlershared.ParseQueryUint(c, "partner_id"),
		Status:           constants.OrderStatus(strings.TrimSpace(c.Query("status"))),
		SettlementStatus: strings.TrimSpace(c.Query("settlement_status")),
		Code:             strings.TrimSpace(c.Query("code")),
		CustomerPhone:    strings.TrimSpace(c.Query("customer_phone")),
		CreatedFrom:      createdFrom,
		CreatedTo:        createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID, 0)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 管理端推进或取消订单，规则与供应商端一致
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AdminUpdateOrderStatusRequest
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
		Reason:       req.Reason,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "admin_id", adminID, "order_id", order.ID, "status", order.Status)
	response.Success(c, order)
}
