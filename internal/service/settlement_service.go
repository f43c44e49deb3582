package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementService 供应商结算对账服务
type SettlementService struct {
	settlementRepo repository.SettlementRepository
	orderRepo      repository.OrderRepository
	supplierRepo   repository.SupplierRepository
	queueClient    *queue.Client
}

// NewSettlementService 创建结算服务
func NewSettlementService(settlementRepo repository.SettlementRepository, orderRepo repository.OrderRepository, supplierRepo repository.SupplierRepository, queueClient *queue.Client) *SettlementService {
	return &SettlementService{
		settlementRepo: settlementRepo,
		orderRepo:      orderRepo,
		supplierRepo:   supplierRepo,
		queueClient:    queueClient,
	}
}

// DeclareSettlementInput 结算声明输入
type DeclareSettlementInput struct {
	SupplierID     uint
	Amount         models.Money
	TransactionRef string
}

// SupplierWallet 供应商应付概览
type SupplierWallet struct {
	PlatformDebt      models.Money `json:"platform_debt"`
	UnpaidOrderMargin models.Money `json:"unpaid_order_margin"`
	TotalSettled      models.Money `json:"total_settled"`
	SettledAt         *time.Time   `json:"settled_at"`
}

// DeclareSettlement 供应商提交结算声明
func (s *SettlementService) DeclareSettlement(input DeclareSettlementInput) (*models.Settlement, error) {
	if input.Amount.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	ref := strings.TrimSpace(input.TransactionRef)
	if ref == "" {
		return nil, fmt.Errorf("%w: transaction reference required", ErrValidation)
	}
	supplier, err := s.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	existing, err := s.settlementRepo.GetBySupplierRef(supplier.ID, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSettlementRefDuplicate
	}

	settlement := &models.Settlement{
		SupplierID:     supplier.ID,
		Amount:         models.NewMoneyFromDecimal(input.Amount.Decimal),
		TransactionRef: ref,
		Status:         constants.SettlementPending,
	}
	if err := s.settlementRepo.Create(settlement); err != nil {
		return nil, err
	}
	logger.Infow("settlement_declared",
		"settlement_id", settlement.ID,
		"supplier_id", supplier.ID,
		"amount", settlement.Amount.String(),
		"transaction_ref", ref,
	)
	return settlement, nil
}

// ApproveSettlement 审核通过：在审核时重新计算未结算订单，并在一个事务内
// 标记订单已结算、结算单通过、供应商应付清零。
func (s *SettlementService) ApproveSettlement(settlementID, adminID uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	if settlement.Status != constants.SettlementPending {
		return nil, ErrSettlementNotPending
	}

	now := time.Now()
	var processed []uint
	reconciled := decimal.Zero
	err = s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		// 供应商行锁须先于列出订单，与送达时累加应付串行
		supplierRepo := s.supplierRepo.WithTx(tx)
		supplier, err := supplierRepo.GetByIDForUpdate(settlement.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return ErrSupplierNotFound
		}

		orderRepo := s.orderRepo.WithTx(tx)
		orders, err := orderRepo.ListSettleableUnpaid(settlement.SupplierID)
		if err != nil {
			return err
		}
		if len(orders) == 0 && settlement.Amount.Decimal.GreaterThan(decimal.Zero) {
			return ErrReconciliationMismatch
		}
		processed = make([]uint, 0, len(orders))
		reconciled = decimal.Zero
		for _, order := range orders {
			processed = append(processed, order.ID)
			reconciled = reconciled.Add(order.PlatformMargin.Decimal)
		}

		affected, err := orderRepo.MarkSettled(processed, settlement.ID, now)
		if err != nil {
			return err
		}
		if affected != int64(len(processed)) {
			return ErrOrderStatusConflict
		}

		reviewer := adminID
		affected, err = s.settlementRepo.WithTx(tx).FinalizePending(settlement.ID, map[string]interface{}{
			"status":              constants.SettlementApproved,
			"processed_order_ids": models.UintArray(processed),
			"reconciled_amount":   models.NewMoneyFromDecimal(reconciled),
			"reviewed_by":         &reviewer,
			"reviewed_at":         now,
			"updated_at":          now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSettlementNotPending
		}
		return supplierRepo.ClearPlatformDebt(settlement.SupplierID, reconciled, now)
	})
	if err != nil {
		if errors.Is(err, ErrReconciliationMismatch) {
			logger.Warnw("settlement_reconciliation_mismatch",
				"settlement_id", settlement.ID,
				"supplier_id", settlement.SupplierID,
				"declared_amount", settlement.Amount.String(),
			)
		}
		return nil, err
	}

	if !reconciled.Equal(settlement.Amount.Decimal) {
		logger.Warnw("settlement_amount_differs_from_reconciled",
			"settlement_id", settlement.ID,
			"declared_amount", settlement.Amount.String(),
			"reconciled_amount", reconciled.StringFixed(2),
		)
	}
	logger.Infow("settlement_approved",
		"settlement_id", settlement.ID,
		"supplier_id", settlement.SupplierID,
		"order_count", len(processed),
		"reconciled_amount", reconciled.StringFixed(2),
	)
	s.notifyReviewed(settlement, constants.SettlementApproved, len(processed))
	return s.settlementRepo.GetByID(settlement.ID)
}

// RejectSettlement 驳回结算声明，不触碰订单与应付
func (s *SettlementService) RejectSettlement(settlementID, adminID uint, reason string) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reject reason required", ErrValidation)
	}
	now := time.Now()
	reviewer := adminID
	affected, err := s.settlementRepo.FinalizePending(settlement.ID, map[string]interface{}{
		"status":        constants.SettlementRejected,
		"reject_reason": reason,
		"reviewed_by":   &reviewer,
		"reviewed_at":   now,
		"updated_at":    now,
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSettlementNotPending
	}
	logger.Infow("settlement_rejected", "settlement_id", settlement.ID, "supplier_id", settlement.SupplierID, "reason", reason)
	s.notifyReviewed(settlement, constants.SettlementRejected, 0)
	return s.settlementRepo.GetByID(settlement.ID)
}

// GetSettlement 获取结算单，supplierID 非 0 时校验归属
func (s *SettlementService) GetSettlement(settlementID, supplierID uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil || (supplierID != 0 && settlement.SupplierID != supplierID) {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListSettlements 结算单列表
func (s *SettlementService) ListSettlements(filter repository.SettlementListFilter) ([]models.Settlement, int64, error) {
	return s.settlementRepo.List(filter)
}

// GetSupplierWallet 供应商应付概览
func (s *SettlementService) GetSupplierWallet(supplierID uint) (*SupplierWallet, error) {
	supplier, err := s.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	unpaid, err := s.orderRepo.SumSettleableUnpaidMargin(supplierID)
	if err != nil {
		return nil, err
	}
	return &SupplierWallet{
		PlatformDebt:      supplier.PlatformDebt,
		UnpaidOrderMargin: models.NewMoneyFromDecimal(unpaid),
		TotalSettled:      supplier.TotalSettled,
		SettledAt:         supplier.SettledAt,
	}, nil
}

func (s *SettlementService) notifyReviewed(settlement *models.Settlement, status string, orderCount int) {
	if s.queueClient == nil || settlement == nil {
		return
	}
	if err := s.queueClient.EnqueueSettlementReviewed(queue.SettlementReviewedPayload{
		SettlementID: settlement.ID,
		SupplierID:   settlement.SupplierID,
		Status:       status,
		OrderCount:   orderCount,
		Amount:       settlement.Amount.String(),
	}); err != nil {
		logger.Warnw("settlement_enqueue_reviewed_failed", "settlement_id", settlement.ID, "error", err)
	}
}
