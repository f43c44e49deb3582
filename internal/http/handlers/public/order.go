package public

import (
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	CustomerName    string                `json:"customer_name" binding:"required"`
	CustomerPhone   string                `json:"customer_phone" binding:"required"`
	DeliveryAddress string                `json:"delivery_address"`
	FulfillmentType string                `json:"fulfillment_type"` // delivery / pickup
	PromoCode       string                `json:"promo_code"`
	Items           []CheckoutItemRequest `json:"items" binding:"required"`
}

// CheckoutItemRequest 下单商品
type CheckoutItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// PublicOrder 顾客可见的订单视图
type PublicOrder struct {
	Code            string                `json:"code"`
	CustomerName    string                `json:"customer_name"`
	DeliveryAddress string                `json:"delivery_address"`
	FulfillmentType string                `json:"fulfillment_type"`
	Status          constants.OrderStatus `json:"status"`
	TotalAmount     models.Money          `json:"total_amount"`
	DiscountAmount  models.Money          `json:"discount_amount"`
	PromoCode       string                `json:"promo_code,omitempty"`
	CancelReason    string                `json:"cancel_reason,omitempty"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []PublicOrderItem     `json:"items"`
}

// PublicOrderItem 顾客可见的订单项
type PublicOrderItem struct {
	ProductID    uint         `json:"product_id"`
	ProductName  string       `json:"product_name"`
	SellingPrice models.Money `json:"selling_price"`
	UnitPrice    models.Money `json:"unit_price"`
	Quantity     int          `json:"quantity"`
}

func toPublicOrder(order *models.Order) PublicOrder {
	items := make([]PublicOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PublicOrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			SellingPrice: item.SellingPrice,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}
	return PublicOrder{
		Code:            order.Code,
		CustomerName:    order.CustomerName,
		DeliveryAddress: order.DeliveryAddress,
		FulfillmentType: order.FulfillmentType,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		PromoCode:       order.PromoCode,
		CancelReason:    order.CancelReason,
		DeliveredAt:     order.DeliveredAt,
		CompletedAt:     order.CompletedAt,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}

// Checkout 顾客下单
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		FulfillmentType: req.FulfillmentType,
		PromoCode:       req.PromoCode,
		Items:           items,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, toPublicOrder(order))
}

// GetOrderByCode 顾客凭订单号与手机号查询订单
// GET /orders/:code?phone=...
func (h *Handler) GetOrderByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	phone := strings.TrimSpace(c.Query("phone"))
	if code == "" || phone == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetOrderByCode(code, phone)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, toPublicOrder(order))
}
