package admin

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ValidateProductRequest 定价上架请求，售价为空时采用供应商建议价
type ValidateProductRequest struct {
	SellingPrice models.Money `json:"selling_price"`
}

// RejectProductRequest 驳回请求
type RejectProductRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: handlershared.ParseQueryUint(c, "supplier_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(productID, 0)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, product)
}

// ValidateProduct 定价并上架
func (h *Handler) ValidateProduct(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ValidateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	price := req.SellingPrice.Decimal
	if price.IsZero() {
		product, err := h.ProductService.GetProduct(productID, 0)
		if err != nil {
			respondServiceError(c, err, "error.fetch_failed")
			return
		}
		price = product.ProposedPrice.Decimal
	}

	product, err := h.ProductService.ValidateProduct(productID, adminID, price)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, product)
}

// RejectProduct 驳回待审核商品
func (h *Handler) RejectProduct(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RejectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.RejectProduct(productID, adminID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, product)
}

// DeactivateProduct 下架商品
func (h *Handler) DeactivateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.DeactivateProduct(productID)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, product)
}
