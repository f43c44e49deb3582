package repository

import (
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByCode(code string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListActiveBySupplier(supplierID uint) ([]models.Order, error)
	CompareAndSetStatus(id uint, from, to constants.OrderStatus, updates map[string]interface{}) (int64, error)
	MarkPromoValidated(id uint, paidAt time.Time) (int64, error)
	ListSettleableUnpaid(supplierID uint) ([]models.Order, error)
	SumSettleableUnpaidMargin(supplierID uint) (decimal.Decimal, error)
	MarkSettled(ids []uint, settlementID uint, at time.Time) (int64, error)
	ListDeliveredBefore(before time.Time, limit int) ([]models.Order, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Order](r.db.Preload("Items"), id)
}

// GetByCode 根据订单编号获取订单
func (r *GormOrderRepository) GetByCode(code string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	return firstOrNil[models.Order](r.db.Preload("Items").Where("code = ?", code))
}

// List 分页查询订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.PartnerID != 0 {
		query = query.Where("promo_partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SettlementStatus != "" {
		query = query.Where("settlement_status = ?", filter.SettlementStatus)
	}
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = query.Where("code = ?", code)
	}
	if phone := strings.TrimSpace(filter.CustomerPhone); phone != "" {
		query = query.Where("customer_phone = ?", phone)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Items").
		Order("id desc").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListActiveBySupplier 按排队顺序列出供应商的在途订单（最早创建优先）
func (r *GormOrderRepository) ListActiveBySupplier(supplierID uint) ([]models.Order, error) {
	if supplierID == 0 {
		return []models.Order{}, nil
	}
	var orders []models.Order
	if err := r.db.Where("supplier_id = ? AND status IN ?", supplierID, constants.ActiveOrderStatuses).
		Order("created_at asc, id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CompareAndSetStatus 仅当当前状态为 from 时写入 to，返回受影响行数。
func (r *GormOrderRepository) CompareAndSetStatus(id uint, from, to constants.OrderStatus, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// MarkPromoValidated 佣金状态置为已确认，已确认的订单不会再次命中。
func (r *GormOrderRepository) MarkPromoValidated(id uint, paidAt time.Time) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND promo_partner_id IS NOT NULL AND promo_status <> ?", id, constants.PromoStatusValidated).
		Updates(map[string]interface{}{
			"promo_status":  constants.PromoStatusValidated,
			"promo_paid_at": paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *GormOrderRepository) settleableUnpaid(supplierID uint) *gorm.DB {
	return r.db.Model(&models.Order{}).Where(
		"supplier_id = ? AND status IN ? AND settlement_status = ?",
		supplierID, constants.SettleableOrderStatuses, constants.SettlementStatusUnpaid,
	)
}

// ListSettleableUnpaid 列出已送达/已完成且未结算的订单
func (r *GormOrderRepository) ListSettleableUnpaid(supplierID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.settleableUnpaid(supplierID).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SumSettleableUnpaidMargin 汇总未结算订单的平台毛利，经 Money 扫描保持定点精度
func (r *GormOrderRepository) SumSettleableUnpaidMargin(supplierID uint) (decimal.Decimal, error) {
	var total models.Money
	if err := r.settleableUnpaid(supplierID).
		Select("COALESCE(SUM(platform_margin), 0)").
		Row().
		Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

// MarkSettled 将订单标记为已结算并关联结算单，已结算的订单保持不变。
func (r *GormOrderRepository) MarkSettled(ids []uint, settlementID uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Order{}).
		Where("id IN ? AND settlement_status = ?", ids, constants.SettlementStatusUnpaid).
		Updates(map[string]interface{}{
			"settlement_status": constants.SettlementStatusPaid,
			"settlement_id":     settlementID,
			"updated_at":        at,
		})
	return result.RowsAffected, result.Error
}

// ListDeliveredBefore 列出送达时间早于 before 仍未完成的订单
func (r *GormOrderRepository) ListDeliveredBefore(before time.Time, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	if err := r.db.Where("status = ? AND delivered_at IS NOT NULL AND delivered_at < ?", constants.OrderStatusDelivered, before).
		Order("delivered_at asc, id asc").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
