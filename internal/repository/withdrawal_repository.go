package repository

import (

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"gorm.io/gorm"
)

// WithdrawalRepository 提现申请数据访问接口
type WithdrawalRepository interface {
	Create(withdrawal *models.Withdrawal) error
	GetByID(id uint) (*models.Withdrawal, error)
	SumPendingByPartner(partnerID uint) (float64, error)
	FinalizePending(id uint, updates map[string]interface{}) (int64, error)
	List(filter WithdrawalListFilter) ([]models.Withdrawal, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) WithdrawalRepository
}

// GormWithdrawalRepository GORM 实现
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository 创建提现仓库
func NewWithdrawalRepository(db *gorm.DB) *GormWithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWithdrawalRepository) WithTx(tx *gorm.DB) WithdrawalRepository {
	if tx == nil {
		return r
	}
	return &GormWithdrawalRepository{db: tx}
}

// Transaction 执行事务
func (r *GormWithdrawalRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建提现申请
func (r *GormWithdrawalRepository) Create(withdrawal *models.Withdrawal) error {
	return r.db.Create(withdrawal).Error
}

// GetByID 获取提现申请
func (r *GormWithdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Withdrawal](r.db.Preload("Partner"), id)
}

// SumPendingByPartner 汇总推广员待审核的提现金额
func (r *GormWithdrawalRepository) SumPendingByPartner(partnerID uint) (float64, error) {
	var total float64
	if err := r.db.Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("partner_id = ? AND status = ?", partnerID, constants.WithdrawStatusPendingReview).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FinalizePending 仅处理待审核申请，返回受影响行数。
func (r *GormWithdrawalRepository) FinalizePending(id uint, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, constants.WithdrawStatusPendingReview).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// List 分页查询提现申请
func (r *GormWithdrawalRepository) List(filter WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	query := r.db.Model(&models.Withdrawal{})
	if filter.PartnerID != 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var withdrawals []models.Withdrawal
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Partner").
		Order("id desc").
		Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}
	return withdrawals, total, nil
}
