package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/repository"
)

const (
	dashboardDefaultCacheTTL  = 45 * time.Second
	dashboardCustomMaxDays    = 90
	dashboardDefaultRankLimit = 10
	dashboardMaxRankLimit     = 50
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页经营与资金数据，只读。
type DashboardService struct {
	repo     repository.DashboardRepository
	cacheTTL time.Duration
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, cacheTTL time.Duration) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = dashboardDefaultCacheTTL
	}
	return &DashboardService{repo: repo, cacheTTL: cacheTTL}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	Limit        int
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range        string           `json:"range"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Timezone     string           `json:"timezone"`
	KPI          DashboardKPI     `json:"kpi"`
	Finance      DashboardFinance `json:"finance"`
	StatusCounts map[string]int64 `json:"status_counts"`
}

// DashboardKPI 订单经营指标（按下单时间统计）
type DashboardKPI struct {
	OrdersTotal      int64  `json:"orders_total"`
	FulfilledOrders  int64  `json:"fulfilled_orders"`
	Revenue          string `json:"revenue"`
	PlatformMargin   string `json:"platform_margin"`
	SupplierEarnings string `json:"supplier_earnings"`
	DiscountsGranted string `json:"discounts_granted"`
	CommissionsPaid  string `json:"commissions_paid"`
	PlatformNet      string `json:"platform_net"`
	FulfillmentRate  string `json:"fulfillment_rate"`
}

// DashboardFinance 资金待办（不受时间范围影响）
type DashboardFinance struct {
	OutstandingDebt         string `json:"outstanding_debt"`
	PartnerWalletTotal      string `json:"partner_wallet_total"`
	PendingSettlements      int64  `json:"pending_settlements"`
	PendingSettlementAmount string `json:"pending_settlement_amount"`
	PendingWithdrawals      int64  `json:"pending_withdrawals"`
	PendingWithdrawAmount   string `json:"pending_withdraw_amount"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date            string `json:"date"`
	OrdersTotal     int64  `json:"orders_total"`
	FulfilledOrders int64  `json:"fulfilled_orders"`
	Revenue         string `json:"revenue"`
	PlatformMargin  string `json:"platform_margin"`
}

// DashboardRankingsResponse 仪表盘排行榜响应
type DashboardRankingsResponse struct {
	Range        string                     `json:"range"`
	From         string                     `json:"from"`
	To           string                     `json:"to"`
	Timezone     string                     `json:"timezone"`
	TopPartners  []DashboardPartnerRanking  `json:"top_partners"`
	TopSuppliers []DashboardSupplierRanking `json:"top_suppliers"`
}

// DashboardPartnerRanking 推广员排行项
type DashboardPartnerRanking struct {
	PartnerID       uint   `json:"partner_id"`
	Name            string `json:"name"`
	PromoCode       string `json:"promo_code"`
	ValidatedOrders int64  `json:"validated_orders"`
	Commission      string `json:"commission"`
}

// DashboardSupplierRanking 供应商排行项
type DashboardSupplierRanking struct {
	SupplierID      uint   `json:"supplier_id"`
	Name            string `json:"name"`
	FulfilledOrders int64  `json:"fulfilled_orders"`
	Revenue         string `json:"revenue"`
	PlatformMargin  string `json:"platform_margin"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

func (w dashboardWindow) cacheKey(kind string) string {
	return fmt.Sprintf("dashboard:%s:%s:%d:%d:%s", kind, w.rangeKey, w.startAt.Unix(), w.endAt.Unix(), w.timezone)
}

// bounds 对外展示的闭区间，结束时间回退一秒
func (w dashboardWindow) bounds() (string, string) {
	return w.startAt.Format(time.RFC3339), w.endAt.Add(-time.Second).Format(time.RFC3339)
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	return cache.Remember(ctx, window.cacheKey("overview"), s.cacheTTL, input.ForceRefresh, func() (*DashboardOverviewResponse, error) {
		return s.buildOverview(window)
	})
}

func (s *DashboardService) buildOverview(window dashboardWindow) (*DashboardOverviewResponse, error) {
	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	statusRows, err := s.repo.GetStatusCounts(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	statusCounts := make(map[string]int64, len(constants.AllOrderStatuses))
	for _, status := range constants.AllOrderStatuses {
		statusCounts[string(status)] = 0
	}
	for _, row := range statusRows {
		statusCounts[strings.TrimSpace(row.Status)] += row.Total
	}

	fulfillmentRate := 0.0
	if overview.OrdersTotal > 0 {
		fulfillmentRate = float64(overview.FulfilledOrders) / float64(overview.OrdersTotal) * 100
	}

	from, to := window.bounds()
	return &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     from,
		To:       to,
		Timezone: window.timezone,
		KPI: DashboardKPI{
			OrdersTotal:      overview.OrdersTotal,
			FulfilledOrders:  overview.FulfilledOrders,
			Revenue:          formatMoneyValue(overview.Revenue),
			PlatformMargin:   formatMoneyValue(overview.PlatformMargin),
			SupplierEarnings: formatMoneyValue(overview.SupplierEarnings),
			DiscountsGranted: formatMoneyValue(overview.DiscountsGranted),
			CommissionsPaid:  formatMoneyValue(overview.CommissionsPaid),
			PlatformNet:      formatMoneyValue(overview.PlatformMargin - overview.CommissionsPaid),
			FulfillmentRate:  formatPercentValue(fulfillmentRate),
		},
		Finance: DashboardFinance{
			OutstandingDebt:         formatMoneyValue(overview.OutstandingDebt),
			PartnerWalletTotal:      formatMoneyValue(overview.PartnerWalletTotal),
			PendingSettlements:      overview.PendingSettlements,
			PendingSettlementAmount: formatMoneyValue(overview.PendingSettlementAmount),
			PendingWithdrawals:      overview.PendingWithdrawals,
			PendingWithdrawAmount:   formatMoneyValue(overview.PendingWithdrawAmount),
		},
		StatusCounts: statusCounts,
	}, nil
}

// GetTrends 获取仪表盘趋势，缺数据的日期补零
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	return cache.Remember(ctx, window.cacheKey("trends"), s.cacheTTL, input.ForceRefresh, func() (*DashboardTrendResponse, error) {
		return s.buildTrends(window)
	})
}

func (s *DashboardService) buildTrends(window dashboardWindow) (*DashboardTrendResponse, error) {
	rows, err := s.repo.GetOrderTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardOrderTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]DashboardTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, DashboardTrendPoint{
			Date:            day,
			OrdersTotal:     item.OrdersTotal,
			FulfilledOrders: item.FulfilledOrders,
			Revenue:         formatMoneyValue(item.Revenue),
			PlatformMargin:  formatMoneyValue(item.PlatformMargin),
		})
	}

	from, to := window.bounds()
	return &DashboardTrendResponse{
		Range:    window.rangeKey,
		From:     from,
		To:       to,
		Timezone: window.timezone,
		Points:   points,
	}, nil
}

// GetRankings 获取推广员与供应商排行
func (s *DashboardService) GetRankings(ctx context.Context, input DashboardQueryInput) (*DashboardRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardRankingsResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = dashboardDefaultRankLimit
	}
	if limit > dashboardMaxRankLimit {
		limit = dashboardMaxRankLimit
	}

	key := fmt.Sprintf("%s:%d", window.cacheKey("rankings"), limit)
	return cache.Remember(ctx, key, s.cacheTTL, input.ForceRefresh, func() (*DashboardRankingsResponse, error) {
		return s.buildRankings(window, limit)
	})
}

func (s *DashboardService) buildRankings(window dashboardWindow, limit int) (*DashboardRankingsResponse, error) {
	partnerRows, err := s.repo.GetTopPartners(window.startAt, window.endAt, limit)
	if err != nil {
		return nil, err
	}
	supplierRows, err := s.repo.GetTopSuppliers(window.startAt, window.endAt, limit)
	if err != nil {
		return nil, err
	}

	partners := make([]DashboardPartnerRanking, 0, len(partnerRows))
	for _, item := range partnerRows {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "-"
		}
		partners = append(partners, DashboardPartnerRanking{
			PartnerID:       item.PartnerID,
			Name:            name,
			PromoCode:       item.PromoCode,
			ValidatedOrders: item.ValidatedOrders,
			Commission:      formatMoneyValue(item.Commission),
		})
	}

	suppliers := make([]DashboardSupplierRanking, 0, len(supplierRows))
	for _, item := range supplierRows {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "-"
		}
		suppliers = append(suppliers, DashboardSupplierRanking{
			SupplierID:      item.SupplierID,
			Name:            name,
			FulfilledOrders: item.FulfilledOrders,
			Revenue:         formatMoneyValue(item.Revenue),
			PlatformMargin:  formatMoneyValue(item.PlatformMargin),
		})
	}

	from, to := window.bounds()
	return &DashboardRankingsResponse{
		Range:        window.rangeKey,
		From:         from,
		To:           to,
		Timezone:     window.timezone,
		TopPartners:  partners,
		TopSuppliers: suppliers,
	}, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
