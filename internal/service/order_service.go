package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务：下单、履约状态迁移与佣金释放
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	supplierRepo   repository.SupplierRepository
	partnerRepo    repository.PartnerRepository
	settingService *SettingService
	queueGate      *SupplierQueueGate
	queueClient    *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository, partnerRepo repository.PartnerRepository, settingService *SettingService, queueGate *SupplierQueueGate, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		supplierRepo:   supplierRepo,
		partnerRepo:    partnerRepo,
		settingService: settingService,
		queueGate:      queueGate,
		queueClient:    queueClient,
	}
}

// CheckoutInput 下单输入
type CheckoutInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	FulfillmentType string
	PromoCode       string
	Items           []CheckoutItem
}

// CheckoutItem 下单商品
type CheckoutItem struct {
	ProductID uint
	Quantity  int
}

// UpdateOrderStatusInput 状态迁移输入
// SupplierID 非 0 时表示供应商操作，只能操作自己的订单。
type UpdateOrderStatusInput struct {
	OrderID      uint
	TargetStatus constants.OrderStatus
	SupplierID   uint
	Reason       string
}

// Checkout 下单：校验商品与推广码，按行计算佣金与优惠并生成订单快照
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	items, err := mergeCheckoutItems(input.Items)
	if err != nil {
		return nil, err
	}
	fulfillmentType := strings.ToLower(strings.TrimSpace(input.FulfillmentType))
	if fulfillmentType == "" {
		fulfillmentType = constants.FulfillmentTypeDelivery
	}
	if fulfillmentType != constants.FulfillmentTypeDelivery && fulfillmentType != constants.FulfillmentTypePickup {
		return nil, ErrFulfillmentTypeInvalid
	}
	address := strings.TrimSpace(input.DeliveryAddress)
	if fulfillmentType == constants.FulfillmentTypeDelivery && address == "" {
		return nil, fmt.Errorf("%w: delivery address required", ErrValidation)
	}
	phone := strings.TrimSpace(input.CustomerPhone)
	if phone == "" {
		return nil, fmt.Errorf("%w: customer phone required", ErrValidation)
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var supplierID uint
	for _, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if product.Status != constants.ProductStatusActive {
			return nil, ErrProductNotActive
		}
		if supplierID == 0 {
			supplierID = product.SupplierID
		} else if supplierID != product.SupplierID {
			return nil, ErrMixedSupplierItems
		}
	}
	supplier, err := s.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	if supplier.Status != constants.SupplierStatusActive {
		return nil, ErrSupplierSuspended
	}

	rules, err := s.settingService.GetConfigRules()
	if err != nil {
		return nil, err
	}

	var partner *models.Partner
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		partner, err = s.partnerRepo.GetByPromoCode(code)
		if err != nil {
			return nil, err
		}
		if partner == nil || !partner.IsActive {
			return nil, ErrPromoCodeInvalid
		}
	}

	now := time.Now()
	orderItems := make([]models.OrderItem, 0, len(items))
	totalAmount := decimal.Zero
	totalCost := decimal.Zero
	totalDiscount := decimal.Zero
	totalCommission := decimal.Zero
	for _, item := range items {
		product := productMap[item.ProductID]
		price := product.SellingPrice.Decimal
		cost := product.BuyingCost.Decimal
		var benefit BenefitResult
		if partner != nil {
			benefit = CalculateBenefit(price, cost, partner.TotalValidatedSales, rules)
		} else {
			benefit = NoPartnerBenefit(price, cost)
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			SellingPrice: product.SellingPrice,
			UnitPrice:    benefit.FinalPrice,
			UnitCost:     product.BuyingCost,
			Quantity:     item.Quantity,
			Commission:   benefit.CommissionPartner,
			Discount:     benefit.DiscountClient,
			TierName:     benefit.TierName,
			CreatedAt:    now,
		})
		totalAmount = totalAmount.Add(benefit.FinalPrice.Decimal.Mul(qty))
		totalCost = totalCost.Add(cost.Mul(qty))
		totalDiscount = totalDiscount.Add(benefit.DiscountClient.Decimal.Mul(qty))
		totalCommission = totalCommission.Add(benefit.CommissionPartner.Decimal.Mul(qty))
	}

	order := &models.Order{
		Code:             generateOrderCode(now),
		SupplierID:       supplierID,
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerPhone:    phone,
		DeliveryAddress:  address,
		FulfillmentType:  fulfillmentType,
		Status:           constants.OrderStatusPending,
		TotalAmount:      models.NewMoneyFromDecimal(totalAmount),
		TotalCost:        models.NewMoneyFromDecimal(totalCost),
		DiscountAmount:   models.NewMoneyFromDecimal(totalDiscount),
		PlatformMargin:   models.NewMoneyFromDecimal(totalAmount.Sub(totalCost)),
		SettlementStatus: constants.SettlementStatusUnpaid,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if partner != nil {
		partnerID := partner.ID
		order.PromoPartnerID = &partnerID
		order.PromoCode = partner.PromoCode
		order.PromoCommission = models.NewMoneyFromDecimal(totalCommission)
		order.PromoStatus = constants.PromoStatusPending
	}

	if err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, orderItems)
	}); err != nil {
		return nil, err
	}

	logger.Infow("order_checkout_created",
		"order_id", order.ID,
		"order_code", order.Code,
		"supplier_id", order.SupplierID,
		"promo_partner_id", order.PromoPartnerID,
		"total_amount", order.TotalAmount.String(),
		"platform_margin", order.PlatformMargin.String(),
	)
	s.notifyStatusChanged(order, "", order.Status)
	return order, nil
}

// StartPreparing 供应商开始备餐，仅队首订单可进入
func (s *OrderService) StartPreparing(ctx context.Context, supplierID, orderID uint) (*models.Order, error) {
	return s.UpdateStatus(ctx, UpdateOrderStatusInput{
		OrderID:      orderID,
		TargetStatus: constants.OrderStatusPreparing,
		SupplierID:   supplierID,
	})
}

// UpdateStatus 订单状态迁移
// 首次进入已送达层级时累加供应商应付毛利；进入已完成时释放推广佣金。
// 两者与状态写入在同一事务内完成，任何失败均整体回滚。
func (s *OrderService) UpdateStatus(ctx context.Context, input UpdateOrderStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (input.SupplierID != 0 && order.SupplierID != input.SupplierID) {
		return nil, ErrOrderNotFound
	}

	current := order.Status
	target := input.TargetStatus
	noop, err := checkOrderTransition(current, target, order.FulfillmentType)
	if err != nil {
		return nil, err
	}
	payoutPending := target == constants.OrderStatusCompleted && order.HasPromo() && order.PromoStatus != constants.PromoStatusValidated
	if noop && !payoutPending {
		return order, nil
	}

	leaseAcquired := false
	if current == constants.OrderStatusPending && target != constants.OrderStatusCancelled && s.queueGate != nil {
		acquired, err := s.queueGate.Admit(ctx, order)
		if err != nil {
			return nil, err
		}
		leaseAcquired = acquired
	}

	now := time.Now()
	var released decimal.Decimal
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if !noop {
			affected, err := orderRepo.CompareAndSetStatus(order.ID, current, target, statusTimestampUpdates(target, input.Reason, now))
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOrderStatusConflict
			}
			if reachesDelivered(current, target) {
				if err := s.supplierRepo.WithTx(tx).AddPlatformDebt(order.SupplierID, order.PlatformMargin.Decimal); err != nil {
					return err
				}
			}
		}
		if payoutPending {
			amount, err := s.releaseCommission(tx, order, now)
			if err != nil {
				return err
			}
			released = amount
		}
		return nil
	})
	if err != nil {
		if leaseAcquired {
			s.queueGate.Release(ctx, order)
		}
		if errors.Is(err, ErrPartnerUnavailable) {
			logger.Warnw("order_commission_partner_unavailable",
				"order_id", order.ID,
				"partner_id", order.PromoPartnerID,
				"target_status", target,
			)
		}
		return nil, err
	}

	if releasesSupplierCapacity(target) && s.queueGate != nil {
		s.queueGate.Release(ctx, order)
	}

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_code", order.Code,
		"from", current,
		"to", target,
		"commission_released", released.String(),
	)
	if !noop {
		s.notifyStatusChanged(order, current, target)
	}
	return s.orderRepo.GetByID(order.ID)
}

// releaseCommission 在事务内释放推广佣金，返回入账金额。
// 佣金状态的条件更新作为比较并设置，已确认的订单不会重复入账。
func (s *OrderService) releaseCommission(tx *gorm.DB, order *models.Order, now time.Time) (decimal.Decimal, error) {
	partnerRepo := s.partnerRepo.WithTx(tx)
	partner, err := partnerRepo.GetByIDForUpdate(*order.PromoPartnerID)
	if err != nil {
		return decimal.Zero, err
	}
	if partner == nil || !partner.IsActive {
		return decimal.Zero, ErrPartnerUnavailable
	}

	affected, err := s.orderRepo.WithTx(tx).MarkPromoValidated(order.ID, now)
	if err != nil {
		return decimal.Zero, err
	}
	if affected == 0 {
		return decimal.Zero, nil
	}

	commission := order.PromoCommission.Decimal
	if commission.LessThan(decimal.Zero) {
		commission = decimal.Zero
	}
	credited, err := partnerRepo.CreditCommission(partner.ID, commission)
	if err != nil {
		return decimal.Zero, err
	}
	if credited == 0 {
		return decimal.Zero, ErrPartnerUnavailable
	}
	if commission.IsZero() {
		return decimal.Zero, nil
	}

	orderID := order.ID
	txn := &models.PartnerWalletTransaction{
		PartnerID:    partner.ID,
		Type:         constants.PartnerTxnTypeCommission,
		Direction:    constants.PartnerTxnDirectionIn,
		Amount:       models.NewMoneyFromDecimal(commission),
		BalanceAfter: models.NewMoneyFromDecimal(partner.WalletBalance.Decimal.Add(commission)),
		Reference:    fmt.Sprintf("commission:order:%d", order.ID),
		OrderID:      &orderID,
		Remark:       order.Code,
		CreatedAt:    now,
	}
	if err := partnerRepo.CreateTransaction(txn); err != nil {
		return decimal.Zero, err
	}
	logger.Infow("order_commission_released",
		"order_id", order.ID,
		"partner_id", partner.ID,
		"commission", commission.String(),
	)
	return commission, nil
}

// AutoCompleteDelivered 将送达超过指定时长的订单置为已完成
func (s *OrderService) AutoCompleteDelivered(ctx context.Context, before time.Time, limit int) (int, error) {
	orders, err := s.orderRepo.ListDeliveredBefore(before, limit)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, order := range orders {
		if _, err := s.UpdateStatus(ctx, UpdateOrderStatusInput{
			OrderID:      order.ID,
			TargetStatus: constants.OrderStatusCompleted,
		}); err != nil {
			logger.Warnw("order_auto_complete_failed", "order_id", order.ID, "error", err)
			continue
		}
		completed++
	}
	return completed, nil
}

// ListDeliveredBefore 列出自动完成候选订单
func (s *OrderService) ListDeliveredBefore(before time.Time, limit int) ([]models.Order, error) {
	return s.orderRepo.ListDeliveredBefore(before, limit)
}

// GetOrder 获取订单详情，supplierID 非 0 时校验归属
func (s *OrderService) GetOrder(orderID, supplierID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (supplierID != 0 && order.SupplierID != supplierID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByCode 顾客凭订单号与手机号查询
func (s *OrderService) GetOrderByCode(code, phone string) (*models.Order, error) {
	order, err := s.orderRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerPhone != strings.TrimSpace(phone) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// SupplierQueue 供应商排队视图
func (s *OrderService) SupplierQueue(supplierID uint) (*SupplierQueueView, error) {
	if s.queueGate == nil {
		return &SupplierQueueView{}, nil
	}
	return s.queueGate.View(supplierID)
}

func (s *OrderService) notifyStatusChanged(order *models.Order, from, to constants.OrderStatus) {
	if s.queueClient == nil || order == nil {
		return
	}
	payload := queue.OrderStatusChangedPayload{
		OrderID:    order.ID,
		OrderCode:  order.Code,
		SupplierID: order.SupplierID,
		From:       string(from),
		To:         string(to),
		OccurredAt: time.Now(),
	}
	if to == constants.OrderStatusCompleted && order.HasPromo() {
		payload.Commission = order.PromoCommission.String()
	}
	if err := s.queueClient.EnqueueOrderStatusChanged(payload); err != nil {
		logger.Warnw("order_enqueue_status_changed_failed",
			"order_id", order.ID,
			"status", to,
			"error", err,
		)
	}
}

func statusTimestampUpdates(target constants.OrderStatus, reason string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{}
	switch target {
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCompleted:
		updates["completed_at"] = now
		// 跳过已送达直接完成时补记送达时间
		updates["delivered_at"] = gorm.Expr("COALESCE(delivered_at, ?)", now)
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
		updates["cancel_reason"] = strings.TrimSpace(reason)
	}
	return updates
}

// mergeCheckoutItems 合并重复商品并校验数量
func mergeCheckoutItems(items []CheckoutItem) ([]CheckoutItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemsEmpty
	}
	merged := make([]CheckoutItem, 0, len(items))
	indexMap := make(map[uint]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid order item", ErrValidation)
		}
		if idx, ok := indexMap[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		indexMap[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

func generateOrderCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("FD%s%s", now.Format("20060102150405"), suffix)
}
