package repository

import (
	"time"

	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupplierRepository 供应商数据访问接口
type SupplierRepository interface {
	GetByID(id uint) (*models.Supplier, error)
	GetByIDForUpdate(id uint) (*models.Supplier, error)
	GetByUserID(userID uint) (*models.Supplier, error)
	GetByIDs(ids []uint) ([]models.Supplier, error)
	Create(supplier *models.Supplier) error
	Update(supplier *models.Supplier) error
	UpdateStatus(id uint, status string) error
	AddPlatformDebt(id uint, delta decimal.Decimal) error
	ClearPlatformDebt(id uint, settled decimal.Decimal, settledAt time.Time) error
	List(filter SupplierListFilter) ([]models.Supplier, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SupplierRepository
}

// GormSupplierRepository GORM 实现
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository 创建供应商仓库
func NewSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSupplierRepository) WithTx(tx *gorm.DB) SupplierRepository {
	if tx == nil {
		return r
	}
	return &GormSupplierRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSupplierRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 获取供应商
func (r *GormSupplierRepository) GetByID(id uint) (*models.Supplier, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Supplier](r.db, id)
}

// GetByIDForUpdate 加锁获取供应商
func (r *GormSupplierRepository) GetByIDForUpdate(id uint) (*models.Supplier, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Supplier](r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetByUserID 按账号获取供应商档案
func (r *GormSupplierRepository) GetByUserID(userID uint) (*models.Supplier, error) {
	if userID == 0 {
		return nil, nil
	}
	return firstOrNil[models.Supplier](r.db.Where("user_id = ?", userID))
}

// GetByIDs 批量获取供应商
func (r *GormSupplierRepository) GetByIDs(ids []uint) ([]models.Supplier, error) {
	if len(ids) == 0 {
		return []models.Supplier{}, nil
	}
	var suppliers []models.Supplier
	if err := r.db.Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Create 创建供应商
func (r *GormSupplierRepository) Create(supplier *models.Supplier) error {
	return r.db.Create(supplier).Error
}

// Update 更新供应商资料
func (r *GormSupplierRepository) Update(supplier *models.Supplier) error {
	return r.db.Save(supplier).Error
}

// UpdateStatus 更新供应商状态
func (r *GormSupplierRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

// AddPlatformDebt 原子累加平台应收
func (r *GormSupplierRepository) AddPlatformDebt(id uint, delta decimal.Decimal) error {
	if id == 0 || delta.IsZero() {
		return nil
	}
	return r.db.Model(&models.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
		"platform_debt": gorm.Expr("platform_debt + ?", delta.Round(2).String()),
		"updated_at":    time.Now(),
	}).Error
}

// ClearPlatformDebt 结算通过后清零应收并累加已结算金额
func (r *GormSupplierRepository) ClearPlatformDebt(id uint, settled decimal.Decimal, settledAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
		"platform_debt": models.NewMoneyFromInt(0),
		"total_settled": gorm.Expr("total_settled + ?", settled.Round(2).String()),
		"settled_at":    settledAt,
		"updated_at":    settledAt,
	}).Error
}

// List 分页查询供应商
func (r *GormSupplierRepository) List(filter SupplierListFilter) ([]models.Supplier, int64, error) {
	query := r.db.Model(&models.Supplier{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.HasDebt {
		query = query.Where("platform_debt > 0")
	}
	query = applyKeyword(query, filter.Keyword, "name", "phone")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var suppliers []models.Supplier
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}
