package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	productNameMaxRune = 200
	productDescMaxRune = 2000
)

// ProductService 商品业务服务
type ProductService struct {
	repo           repository.ProductRepository
	supplierRepo   repository.SupplierRepository
	partnerRepo    repository.PartnerRepository
	settingService *SettingService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, supplierRepo repository.SupplierRepository, partnerRepo repository.PartnerRepository, settingService *SettingService) *ProductService {
	return &ProductService{
		repo:           repo,
		supplierRepo:   supplierRepo,
		partnerRepo:    partnerRepo,
		settingService: settingService,
	}
}

// ProposeProductInput 供应商提交商品输入
type ProposeProductInput struct {
	SupplierID    uint
	Name          string
	Description   string
	ImageURL      string
	BuyingCost    decimal.Decimal
	ProposedPrice decimal.Decimal
}

// BenefitPreview 前台价格预览
type BenefitPreview struct {
	ProductID    uint         `json:"product_id"`
	SellingPrice models.Money `json:"selling_price"`
	FinalPrice   models.Money `json:"final_price"`
	Discount     models.Money `json:"discount"`
	PromoApplied bool         `json:"promo_applied"`
	TierName     string       `json:"tier_name,omitempty"`
	Quantity     int          `json:"quantity"`
	TotalAmount  models.Money `json:"total_amount"`
}

// ProposeProduct 供应商提交待审核商品
func (s *ProductService) ProposeProduct(input ProposeProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > productNameMaxRune {
		return nil, fmt.Errorf("%w: product name invalid", ErrValidation)
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > productDescMaxRune {
		return nil, fmt.Errorf("%w: product description too long", ErrValidation)
	}
	cost := input.BuyingCost.Round(2)
	proposed := input.ProposedPrice.Round(2)
	if cost.LessThan(decimal.Zero) || proposed.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	supplier, err := s.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	if supplier.Status != constants.SupplierStatusActive {
		return nil, ErrSupplierSuspended
	}

	product := &models.Product{
		SupplierID:    supplier.ID,
		Name:          name,
		Description:   description,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		BuyingCost:    models.NewMoneyFromDecimal(cost),
		ProposedPrice: models.NewMoneyFromDecimal(proposed),
		Status:        constants.ProductStatusPendingValidation,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_proposed", "product_id", product.ID, "supplier_id", supplier.ID, "proposed_price", product.ProposedPrice.String())
	return product, nil
}

// ValidateProduct 管理员定价上架，冻结平台毛利
// 毛利低于保底毛利或任一等级平台收益为负时拒绝，不做截断。
func (s *ProductService) ValidateProduct(productID, adminID uint, sellingPrice decimal.Decimal) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != constants.ProductStatusPendingValidation && product.Status != constants.ProductStatusInactive {
		return nil, ErrProductStatusInvalid
	}
	price := sellingPrice.Round(2)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	rules, err := s.settingService.GetConfigRules()
	if err != nil {
		return nil, err
	}
	if err := CheckActivationMargin(price, product.BuyingCost.Decimal, rules); err != nil {
		logger.Warnw("product_activation_rejected_by_margin",
			"product_id", product.ID,
			"selling_price", price.StringFixed(2),
			"buying_cost", product.BuyingCost.String(),
			"error", err,
		)
		return nil, err
	}

	now := time.Now()
	reviewer := adminID
	product.SellingPrice = models.NewMoneyFromDecimal(price)
	product.PlatformMargin = models.NewMoneyFromDecimal(price.Sub(product.BuyingCost.Decimal))
	product.Status = constants.ProductStatusActive
	product.RejectReason = ""
	product.ValidatedBy = &reviewer
	product.ValidatedAt = &now
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	logger.Infow("product_validated",
		"product_id", product.ID,
		"admin_id", adminID,
		"selling_price", product.SellingPrice.String(),
		"platform_margin", product.PlatformMargin.String(),
	)
	return product, nil
}

// RejectProduct 驳回待审核商品
func (s *ProductService) RejectProduct(productID, adminID uint, reason string) (*models.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reject reason required", ErrValidation)
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != constants.ProductStatusPendingValidation {
		return nil, ErrProductStatusInvalid
	}
	now := time.Now()
	reviewer := adminID
	product.Status = constants.ProductStatusRejected
	product.RejectReason = reason
	product.ValidatedBy = &reviewer
	product.ValidatedAt = &now
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	logger.Infow("product_rejected", "product_id", product.ID, "admin_id", adminID, "reason", reason)
	return product, nil
}

// DeactivateProduct 下架商品，已下单订单不受影响
func (s *ProductService) DeactivateProduct(productID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != constants.ProductStatusActive {
		return nil, ErrProductStatusInvalid
	}
	product.Status = constants.ProductStatusInactive
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	logger.Infow("product_deactivated", "product_id", product.ID)
	return product, nil
}

// GetProduct 获取商品，supplierID 非 0 时校验归属
func (s *ProductService) GetProduct(productID, supplierID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || (supplierID != 0 && product.SupplierID != supplierID) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetPublicProduct 前台仅可见已上架商品
func (s *ProductService) GetPublicProduct(productID uint) (*models.Product, error) {
	product, err := s.GetProduct(productID, 0)
	if err != nil {
		return nil, err
	}
	if product.Status != constants.ProductStatusActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// ListPublicProducts 前台商品列表
func (s *ProductService) ListPublicProducts(keyword string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   constants.ProductStatusActive,
		Keyword:  keyword,
	})
}

// PreviewBenefit 计算带推广码的前台价格，不落库
func (s *ProductService) PreviewBenefit(productID uint, promoCode string, quantity int) (*BenefitPreview, error) {
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.GetPublicProduct(productID)
	if err != nil {
		return nil, err
	}
	benefit := NoPartnerBenefit(product.SellingPrice.Decimal, product.BuyingCost.Decimal)
	applied := false
	if code := strings.TrimSpace(promoCode); code != "" {
		partner, err := s.partnerRepo.GetByPromoCode(code)
		if err != nil {
			return nil, err
		}
		if partner == nil || !partner.IsActive {
			return nil, ErrPromoCodeInvalid
		}
		rules, err := s.settingService.GetConfigRules()
		if err != nil {
			return nil, err
		}
		benefit = CalculateBenefit(product.SellingPrice.Decimal, product.BuyingCost.Decimal, partner.TotalValidatedSales, rules)
		applied = true
	}
	qty := decimal.NewFromInt(int64(quantity))
	return &BenefitPreview{
		ProductID:    product.ID,
		SellingPrice: product.SellingPrice,
		FinalPrice:   benefit.FinalPrice,
		Discount:     benefit.DiscountClient,
		PromoApplied: applied,
		TierName:     benefit.TierName,
		Quantity:     quantity,
		TotalAmount:  models.NewMoneyFromDecimal(benefit.FinalPrice.Decimal.Mul(qty)),
	}, nil
}
