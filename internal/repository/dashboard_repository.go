package repository

import (
	"fmt"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。历史记录缺失的数值字段一律按 0 统计。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetStatusCounts(startAt, endAt time.Time) ([]DashboardStatusCountRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopPartners(startAt, endAt time.Time, limit int) ([]DashboardPartnerRankingRow, error)
	GetTopSuppliers(startAt, endAt time.Time, limit int) ([]DashboardSupplierRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal             int64
	FulfilledOrders         int64
	Revenue                 float64
	PlatformMargin          float64
	SupplierEarnings        float64
	DiscountsGranted        float64
	CommissionsPaid         float64
	OutstandingDebt         float64
	PartnerWalletTotal      float64
	PendingSettlements      int64
	PendingSettlementAmount float64
	PendingWithdrawals      int64
	PendingWithdrawAmount   float64
}

// DashboardStatusCountRow 按状态计数
type DashboardStatusCountRow struct {
	Status string
	Total  int64
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day             string
	OrdersTotal     int64
	FulfilledOrders int64
	Revenue         float64
	PlatformMargin  float64
}

// DashboardPartnerRankingRow 推广员排行原始行
type DashboardPartnerRankingRow struct {
	PartnerID       uint
	Name            string
	PromoCode       string
	ValidatedOrders int64
	Commission      float64
}

// DashboardSupplierRankingRow 供应商排行原始行
type DashboardSupplierRankingRow struct {
	SupplierID      uint
	Name            string
	FulfilledOrders int64
	Revenue         float64
	PlatformMargin  float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) orderBase(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.Order{}).Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt)
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.orderBase(startAt, endAt).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}

	type fulfilledRow struct {
		Total            int64
		Revenue          float64
		PlatformMargin   float64
		SupplierEarnings float64
		DiscountsGranted float64
	}
	var fulfilled fulfilledRow
	if err := r.orderBase(startAt, endAt).
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(COALESCE(total_amount, 0)), 0) as revenue,
			COALESCE(SUM(COALESCE(platform_margin, 0)), 0) as platform_margin,
			COALESCE(SUM(COALESCE(total_cost, 0)), 0) as supplier_earnings,
			COALESCE(SUM(COALESCE(discount_amount, 0)), 0) as discounts_granted
		`).
		Where("status IN ?", constants.SettleableOrderStatuses).
		Scan(&fulfilled).Error; err != nil {
		return result, err
	}
	result.FulfilledOrders = fulfilled.Total
	result.Revenue = fulfilled.Revenue
	result.PlatformMargin = fulfilled.PlatformMargin
	result.SupplierEarnings = fulfilled.SupplierEarnings
	result.DiscountsGranted = fulfilled.DiscountsGranted

	if err := r.orderBase(startAt, endAt).
		Select("COALESCE(SUM(COALESCE(promo_commission, 0)), 0)").
		Where("promo_status = ?", constants.PromoStatusValidated).
		Scan(&result.CommissionsPaid).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Supplier{}).
		Select("COALESCE(SUM(COALESCE(platform_debt, 0)), 0)").
		Scan(&result.OutstandingDebt).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Partner{}).
		Select("COALESCE(SUM(COALESCE(wallet_balance, 0)), 0)").
		Scan(&result.PartnerWalletTotal).Error; err != nil {
		return result, err
	}

	type pendingRow struct {
		Total  int64
		Amount float64
	}
	var settlements pendingRow
	if err := r.db.Model(&models.Settlement{}).
		Select("COUNT(*) as total, COALESCE(SUM(COALESCE(amount, 0)), 0) as amount").
		Where("status = ?", constants.SettlementPending).
		Scan(&settlements).Error; err != nil {
		return result, err
	}
	result.PendingSettlements = settlements.Total
	result.PendingSettlementAmount = settlements.Amount

	var withdrawals pendingRow
	if err := r.db.Model(&models.Withdrawal{}).
		Select("COUNT(*) as total, COALESCE(SUM(COALESCE(amount, 0)), 0) as amount").
		Where("status = ?", constants.WithdrawStatusPendingReview).
		Scan(&withdrawals).Error; err != nil {
		return result, err
	}
	result.PendingWithdrawals = withdrawals.Total
	result.PendingWithdrawAmount = withdrawals.Amount

	return result, nil
}

// GetStatusCounts 按订单状态计数
func (r *GormDashboardRepository) GetStatusCounts(startAt, endAt time.Time) ([]DashboardStatusCountRow, error) {
	rows := make([]DashboardStatusCountRow, 0)
	if err := r.orderBase(startAt, endAt).
		Select("status, COUNT(*) as total").
		Group("status").
		Order("status asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetOrderTrends 获取订单趋势
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	dayExpr := dayBucketExpr(r.db, "orders.created_at")
	rows := make([]DashboardOrderTrendRow, 0)
	if err := r.orderBase(startAt, endAt).
		Select(fmt.Sprintf(`
			%s as day,
			COUNT(*) as orders_total,
			SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END) as fulfilled_orders,
			COALESCE(SUM(CASE WHEN status IN ? THEN COALESCE(total_amount, 0) ELSE 0 END), 0) as revenue,
			COALESCE(SUM(CASE WHEN status IN ? THEN COALESCE(platform_margin, 0) ELSE 0 END), 0) as platform_margin
		`, dayExpr),
			constants.SettleableOrderStatuses,
			constants.SettleableOrderStatuses,
			constants.SettleableOrderStatuses,
		).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopPartners 获取推广员佣金排行
func (r *GormDashboardRepository) GetTopPartners(startAt, endAt time.Time, limit int) ([]DashboardPartnerRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardPartnerRankingRow, 0)
	if err := r.orderBase(startAt, endAt).
		Select(`
			orders.promo_partner_id as partner_id,
			COALESCE(partners.name, '') as name,
			COALESCE(partners.promo_code, '') as promo_code,
			COUNT(*) as validated_orders,
			COALESCE(SUM(COALESCE(orders.promo_commission, 0)), 0) as commission
		`).
		Joins("LEFT JOIN partners ON partners.id = orders.promo_partner_id").
		Where("orders.promo_partner_id IS NOT NULL AND orders.promo_status = ?", constants.PromoStatusValidated).
		Group("orders.promo_partner_id, partners.name, partners.promo_code").
		Order("commission DESC, validated_orders DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopSuppliers 获取供应商营收排行
func (r *GormDashboardRepository) GetTopSuppliers(startAt, endAt time.Time, limit int) ([]DashboardSupplierRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardSupplierRankingRow, 0)
	if err := r.orderBase(startAt, endAt).
		Select(`
			orders.supplier_id as supplier_id,
			COALESCE(suppliers.name, '') as name,
			COUNT(*) as fulfilled_orders,
			COALESCE(SUM(COALESCE(orders.total_amount, 0)), 0) as revenue,
			COALESCE(SUM(COALESCE(orders.platform_margin, 0)), 0) as platform_margin
		`).
		Joins("LEFT JOIN suppliers ON suppliers.id = orders.supplier_id").
		Where("orders.status IN ?", constants.SettleableOrderStatuses).
		Group("orders.supplier_id, suppliers.name").
		Order("revenue DESC, fulfilled_orders DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
