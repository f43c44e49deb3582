package public

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"

	"github.com/gin-gonic/gin"
)

// PublicProduct 前台商品视图，不暴露成本与毛利
type PublicProduct struct {
	ID           uint         `json:"id"`
	SupplierID   uint         `json:"supplier_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
	SellingPrice models.Money `json:"selling_price"`
}

func toPublicProduct(product *models.Product) PublicProduct {
	return PublicProduct{
		ID:           product.ID,
		SupplierID:   product.SupplierID,
		Name:         product.Name,
		Description:  product.Description,
		ImageURL:     product.ImageURL,
		SellingPrice: product.SellingPrice,
	}
}

// ListProducts 前台商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	keyword := strings.TrimSpace(c.Query("keyword"))

	products, total, err := h.ProductService.ListPublicProducts(keyword, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	items := make([]PublicProduct, 0, len(products))
	for i := range products {
		items = append(items, toPublicProduct(&products[i]))
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetProduct 前台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	product, err := h.ProductService.GetPublicProduct(productID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, toPublicProduct(product))
}

// BenefitPreviewRequest 价格预览请求
type BenefitPreviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	PromoCode string `json:"promo_code"`
	Quantity  int    `json:"quantity"`
}

// PreviewBenefit 推广码价格预览，不落库
func (h *Handler) PreviewBenefit(c *gin.Context) {
	var req BenefitPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	preview, err := h.ProductService.PreviewBenefit(req.ProductID, req.PromoCode, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, preview)
}
