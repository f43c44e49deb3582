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

// ProposeProductRequest 供应商提交商品
type ProposeProductRequest struct {
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	ImageURL      string       `json:"image_url"`
	BuyingCost    models.Money `json:"buying_cost"`
	ProposedPrice models.Money `json:"proposed_price"`
}

// ListProducts 我的商品
func (h *Handler) ListProducts(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: supplier.ID,
		Status:     strings.TrimSpace(c.Query("status")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// ProposeProduct 提交待审核商品
func (h *Handler) ProposeProduct(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	var req ProposeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.ProposeProduct(service.ProposeProductInput{
		SupplierID:    supplier.ID,
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		BuyingCost:    req.BuyingCost.Decimal,
		ProposedPrice: req.ProposedPrice.Decimal,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, product)
}

// GetProduct 我的商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	supplier, ok := h.currentSupplier(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	product, err := h.ProductService.GetProduct(productID, supplier.ID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, product)
}
