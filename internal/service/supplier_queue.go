package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"
)

const defaultSupplierLeaseTTL = 24 * time.Hour

// SupplierQueueView 供应商排队视图：只暴露当前可处理的订单，其余仅计数
type SupplierQueueView struct {
	Active      *models.Order `json:"active"`
	QueuedCount int           `json:"queued_count"`
}

// SupplierQueueGate 供应商单订单准入控制
// 同一供应商同一时刻只允许一个订单进入备餐，按创建时间先到先得。
type SupplierQueueGate struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	lease        cache.Lease
	ttl          time.Duration
}

// NewSupplierQueueGate 创建准入控制
func NewSupplierQueueGate(orderRepo repository.OrderRepository, supplierRepo repository.SupplierRepository, lease cache.Lease, ttl time.Duration) *SupplierQueueGate {
	if lease == nil {
		lease = cache.NewMemoryLease()
	}
	if ttl <= 0 {
		ttl = defaultSupplierLeaseTTL
	}
	return &SupplierQueueGate{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		lease:        lease,
		ttl:          ttl,
	}
}

func supplierLeaseKey(supplierID uint) string {
	return fmt.Sprintf("supplier:lease:%d", supplierID)
}

func orderLeaseHolder(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

func parseLeaseHolder(holder string) uint {
	raw := strings.TrimPrefix(strings.TrimSpace(holder), "order:")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// View 获取供应商排队视图
func (g *SupplierQueueGate) View(supplierID uint) (*SupplierQueueView, error) {
	orders, err := g.orderRepo.ListActiveBySupplier(supplierID)
	if err != nil {
		return nil, err
	}
	view := &SupplierQueueView{}
	if len(orders) == 0 {
		return view, nil
	}
	active, err := g.orderRepo.GetByID(orders[0].ID)
	if err != nil {
		return nil, err
	}
	view.Active = active
	view.QueuedCount = len(orders) - 1
	return view, nil
}

// Admit 订单离开待处理前的准入校验：必须是队首订单、供应商可用、并取得产能租约
// acquired 为 true 表示租约由本次调用新取得，续期时为 false；
// 只有新取得租约的调用方在后续失败时才应释放。
func (g *SupplierQueueGate) Admit(ctx context.Context, order *models.Order) (acquired bool, err error) {
	if order == nil {
		return false, ErrOrderNotFound
	}
	supplier, err := g.supplierRepo.GetByID(order.SupplierID)
	if err != nil {
		return false, err
	}
	if supplier == nil {
		return false, ErrSupplierNotFound
	}
	if supplier.Status != constants.SupplierStatusActive {
		return false, ErrSupplierSuspended
	}

	orders, err := g.orderRepo.ListActiveBySupplier(order.SupplierID)
	if err != nil {
		return false, err
	}
	if len(orders) == 0 || orders[0].ID != order.ID {
		return false, ErrOrderQueued
	}

	key := supplierLeaseKey(order.SupplierID)
	holder := orderLeaseHolder(order.ID)
	grant, err := g.lease.Acquire(ctx, key, holder, g.ttl)
	if err != nil {
		return false, err
	}
	if grant.Granted {
		return grant.Acquired(), nil
	}

	// 持有者订单已结束（释放失败或进程中断）时接管租约
	current := grant.Holder
	stale, err := g.isStaleHolder(current)
	if err != nil {
		return false, err
	}
	if !stale {
		return false, ErrSupplierBusy
	}
	swapped, err := g.lease.Swap(ctx, key, current, holder, g.ttl)
	if err != nil {
		return false, err
	}
	if !swapped {
		return false, ErrSupplierBusy
	}
	logger.Infow("supplier_lease_taken_over",
		"supplier_id", order.SupplierID,
		"previous_holder", current,
		"holder", holder,
	)
	return true, nil
}

func (g *SupplierQueueGate) isStaleHolder(holder string) (bool, error) {
	holderID := parseLeaseHolder(holder)
	if holderID == 0 {
		return true, nil
	}
	holderOrder, err := g.orderRepo.GetByID(holderID)
	if err != nil {
		return false, err
	}
	return holderOrder == nil || !isActiveOrderStatus(holderOrder.Status), nil
}

// Release 释放订单持有的产能租约，非持有者调用无副作用
func (g *SupplierQueueGate) Release(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	released, err := g.lease.Release(ctx, supplierLeaseKey(order.SupplierID), orderLeaseHolder(order.ID))
	if err != nil {
		logger.Warnw("supplier_lease_release_failed",
			"supplier_id", order.SupplierID,
			"order_id", order.ID,
			"error", err,
		)
		return
	}
	if released {
		logger.Debugw("supplier_lease_released", "supplier_id", order.SupplierID, "order_id", order.ID)
	}
}
