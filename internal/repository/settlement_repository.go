package repository

import (
	"strings"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"gorm.io/gorm"
)

// SettlementRepository 结算单数据访问接口
type SettlementRepository interface {
	Create(settlement *models.Settlement) error
	GetByID(id uint) (*models.Settlement, error)
	GetBySupplierRef(supplierID uint, ref string) (*models.Settlement, error)
	FinalizePending(id uint, updates map[string]interface{}) (int64, error)
	List(filter SettlementListFilter) ([]models.Settlement, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SettlementRepository
}

// GormSettlementRepository GORM 实现
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 创建结算单仓库
func NewSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettlementRepository) WithTx(tx *gorm.DB) SettlementRepository {
	if tx == nil {
		return r
	}
	return &GormSettlementRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSettlementRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建结算单
func (r *GormSettlementRepository) Create(settlement *models.Settlement) error {
	return r.db.Create(settlement).Error
}

// GetByID 获取结算单
func (r *GormSettlementRepository) GetByID(id uint) (*models.Settlement, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Settlement](r.db.Preload("Supplier"), id)
}

// GetBySupplierRef 按供应商与转账流水号查询
func (r *GormSettlementRepository) GetBySupplierRef(supplierID uint, ref string) (*models.Settlement, error) {
	ref = strings.TrimSpace(ref)
	if supplierID == 0 || ref == "" {
		return nil, nil
	}
	return firstOrNil[models.Settlement](r.db.Where("supplier_id = ? AND transaction_ref = ?", supplierID, ref))
}

// FinalizePending 仅处理待审核结算单，返回受影响行数。
func (r *GormSettlementRepository) FinalizePending(id uint, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Settlement{}).
		Where("id = ? AND status = ?", id, constants.SettlementPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// List 分页查询结算单
func (r *GormSettlementRepository) List(filter SettlementListFilter) ([]models.Settlement, int64, error) {
	query := r.db.Model(&models.Settlement{})
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var settlements []models.Settlement
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Supplier").
		Order("id desc").
		Find(&settlements).Error; err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}
