package repository

import (
	"strings"
	"time"

	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PartnerRepository 推广员与钱包流水数据访问接口
type PartnerRepository interface {
	GetByID(id uint) (*models.Partner, error)
	GetByIDForUpdate(id uint) (*models.Partner, error)
	GetByUserID(userID uint) (*models.Partner, error)
	GetByPromoCode(code string) (*models.Partner, error)
	GetByIDs(ids []uint) ([]models.Partner, error)
	Create(partner *models.Partner) error
	UpdateActive(id uint, active bool) error
	CreditCommission(id uint, amount decimal.Decimal) (int64, error)
	DebitWallet(id uint, amount decimal.Decimal) (int64, error)
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
	CreateTransaction(txn *models.PartnerWalletTransaction) error
	GetTransactionByReference(reference string) (*models.PartnerWalletTransaction, error)
	ListTransactions(filter PartnerTransactionListFilter) ([]models.PartnerWalletTransaction, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PartnerRepository
}

// GormPartnerRepository GORM 实现
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建推广员仓库
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPartnerRepository) WithTx(tx *gorm.DB) PartnerRepository {
	if tx == nil {
		return r
	}
	return &GormPartnerRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPartnerRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 获取推广员
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Partner](r.db, id)
}

// GetByIDForUpdate 加锁获取推广员
func (r *GormPartnerRepository) GetByIDForUpdate(id uint) (*models.Partner, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Partner](r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetByUserID 按账号获取推广员
func (r *GormPartnerRepository) GetByUserID(userID uint) (*models.Partner, error) {
	if userID == 0 {
		return nil, nil
	}
	return firstOrNil[models.Partner](r.db.Where("user_id = ?", userID))
}

// GetByPromoCode 按推广码获取推广员（大小写不敏感）
func (r *GormPartnerRepository) GetByPromoCode(code string) (*models.Partner, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	return firstOrNil[models.Partner](r.db.Where("promo_code = ?", normalized))
}

// GetByIDs 批量获取推广员
func (r *GormPartnerRepository) GetByIDs(ids []uint) ([]models.Partner, error) {
	if len(ids) == 0 {
		return []models.Partner{}, nil
	}
	var partners []models.Partner
	if err := r.db.Where("id IN ?", ids).Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Create 创建推广员
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// UpdateActive 启用/停用推广员
func (r *GormPartnerRepository) UpdateActive(id uint, active bool) error {
	return r.db.Model(&models.Partner{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	}).Error
}

// CreditCommission 佣金入账：余额与累计佣金累加，已确认销售笔数 +1。
// 仅对启用中的推广员生效，返回受影响行数。
func (r *GormPartnerRepository) CreditCommission(id uint, amount decimal.Decimal) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	value := amount.Round(2).String()
	result := r.db.Model(&models.Partner{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"wallet_balance":        gorm.Expr("wallet_balance + ?", value),
			"total_earnings":        gorm.Expr("total_earnings + ?", value),
			"total_validated_sales": gorm.Expr("total_validated_sales + ?", 1),
			"updated_at":            time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DebitWallet 条件扣减余额（余额不足时不更新），返回受影响行数。
func (r *GormPartnerRepository) DebitWallet(id uint, amount decimal.Decimal) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	value := amount.Round(2).String()
	result := r.db.Model(&models.Partner{}).
		Where("id = ? AND wallet_balance >= ?", id, value).
		Updates(map[string]interface{}{
			"wallet_balance":  gorm.Expr("wallet_balance - ?", value),
			"total_withdrawn": gorm.Expr("total_withdrawn + ?", value),
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}

// List 分页查询推广员
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	query = applyKeyword(query, filter.Keyword, "name", "promo_code")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var partners []models.Partner
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&partners).Error; err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

// CreateTransaction 写入钱包流水
func (r *GormPartnerRepository) CreateTransaction(txn *models.PartnerWalletTransaction) error {
	return r.db.Create(txn).Error
}

// GetTransactionByReference 按幂等键获取流水
func (r *GormPartnerRepository) GetTransactionByReference(reference string) (*models.PartnerWalletTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}
	return firstOrNil[models.PartnerWalletTransaction](r.db.Where("reference = ?", reference))
}

// ListTransactions 分页查询钱包流水
func (r *GormPartnerRepository) ListTransactions(filter PartnerTransactionListFilter) ([]models.PartnerWalletTransaction, int64, error) {
	query := r.db.Model(&models.PartnerWalletTransaction{})
	if filter.PartnerID != 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txns []models.PartnerWalletTransaction
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
