package service

import (
	"errors"
	"testing"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"gorm.io/gorm"
)

// deliverOrderWithMargin 创建一笔指定毛利的订单并推进到已送达
func deliverOrderWithMargin(t *testing.T, f *serviceFixture, supplierID uint, margin int64) *models.Order {
	t.Helper()
	product := f.createActiveProduct(t, supplierID, 1000+margin, 1000)
	order := f.checkout(t, product.ID, 1, "")
	return advanceOrder(t, f, order.ID,
		constants.OrderStatusPreparing,
		constants.OrderStatusInDelivery,
		constants.OrderStatusDelivered,
	)
}

func declareSettlement(t *testing.T, f *serviceFixture, supplierID uint, amount int64, ref string) *models.Settlement {
	t.Helper()
	settlement, err := f.settlements.DeclareSettlement(DeclareSettlementInput{
		SupplierID:     supplierID,
		Amount:         models.NewMoneyFromInt(amount),
		TransactionRef: ref,
	})
	if err != nil {
		t.Fatalf("declare settlement failed: %v", err)
	}
	return settlement
}

func TestApproveSettlementMarksOrdersPaidAndClearsDebt(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	first := deliverOrderWithMargin(t, f, supplier.ID, 150)
	second := deliverOrderWithMargin(t, f, supplier.ID, 250)
	assertDecimal(t, "platform_debt", f.reloadSupplier(t, supplier.ID).PlatformDebt.Decimal, 400)

	wallet, err := f.settlements.GetSupplierWallet(supplier.ID)
	if err != nil {
		t.Fatalf("get supplier wallet failed: %v", err)
	}
	assertDecimal(t, "unpaid_order_margin", wallet.UnpaidOrderMargin.Decimal, 400)

	settlement := declareSettlement(t, f, supplier.ID, 400, "WAVE-001")
	if settlement.Status != constants.SettlementPending {
		t.Fatalf("declared settlement should be pending, got %s", settlement.Status)
	}

	approved, err := f.settlements.ApproveSettlement(settlement.ID, 1)
	if err != nil {
		t.Fatalf("approve settlement failed: %v", err)
	}
	if approved.Status != constants.SettlementApproved {
		t.Fatalf("settlement status want approved, got %s", approved.Status)
	}
	if len(approved.ProcessedOrderIDs) != 2 {
		t.Fatalf("processed order ids want 2, got %v", approved.ProcessedOrderIDs)
	}
	assertDecimal(t, "reconciled_amount", approved.ReconciledAmount.Decimal, 400)

	for _, id := range []uint{first.ID, second.ID} {
		order := f.reloadOrder(t, id)
		if order.SettlementStatus != constants.SettlementStatusPaid {
			t.Fatalf("order %d should be paid, got %s", id, order.SettlementStatus)
		}
		if order.SettlementID == nil || *order.SettlementID != settlement.ID {
			t.Fatalf("order %d settlement id not recorded", id)
		}
	}
	stored := f.reloadSupplier(t, supplier.ID)
	assertDecimal(t, "platform_debt after approval", stored.PlatformDebt.Decimal, 0)
	assertDecimal(t, "total_settled", stored.TotalSettled.Decimal, 400)
	if stored.SettledAt == nil {
		t.Fatalf("settled_at should be recorded")
	}

	if _, err := f.settlements.ApproveSettlement(settlement.ID, 1); !errors.Is(err, ErrSettlementNotPending) {
		t.Fatalf("second approval should fail with ErrSettlementNotPending, got %v", err)
	}
}

func TestApproveSettlementRecomputesAtApprovalTime(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	deliverOrderWithMargin(t, f, supplier.ID, 150)
	settlement := declareSettlement(t, f, supplier.ID, 150, "WAVE-002")

	// 声明之后送达的订单同样纳入本次核销
	late := deliverOrderWithMargin(t, f, supplier.ID, 250)
	approved, err := f.settlements.ApproveSettlement(settlement.ID, 1)
	if err != nil {
		t.Fatalf("approve settlement failed: %v", err)
	}
	if len(approved.ProcessedOrderIDs) != 2 {
		t.Fatalf("processed order ids want 2, got %v", approved.ProcessedOrderIDs)
	}
	if order := f.reloadOrder(t, late.ID); order.SettlementStatus != constants.SettlementStatusPaid {
		t.Fatalf("late order should be paid")
	}
}

// callLog 记录仓储调用顺序
type callLog struct {
	calls []string
}

func (l *callLog) index(name string) int {
	for i, call := range l.calls {
		if call == name {
			return i
		}
	}
	return -1
}

type loggingSupplierRepo struct {
	repository.SupplierRepository
	log *callLog
}

func (r loggingSupplierRepo) WithTx(tx *gorm.DB) repository.SupplierRepository {
	return loggingSupplierRepo{SupplierRepository: r.SupplierRepository.WithTx(tx), log: r.log}
}

func (r loggingSupplierRepo) GetByIDForUpdate(id uint) (*models.Supplier, error) {
	r.log.calls = append(r.log.calls, "supplier.lock")
	return r.SupplierRepository.GetByIDForUpdate(id)
}

type loggingOrderRepo struct {
	repository.OrderRepository
	log *callLog
}

func (r loggingOrderRepo) WithTx(tx *gorm.DB) repository.OrderRepository {
	return loggingOrderRepo{OrderRepository: r.OrderRepository.WithTx(tx), log: r.log}
}

func (r loggingOrderRepo) ListSettleableUnpaid(supplierID uint) ([]models.Order, error) {
	r.log.calls = append(r.log.calls, "orders.list_unpaid")
	return r.OrderRepository.ListSettleableUnpaid(supplierID)
}

func TestApproveSettlementLocksSupplierBeforeListingOrders(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	deliverOrderWithMargin(t, f, supplier.ID, 150)
	settlement := declareSettlement(t, f, supplier.ID, 150, "WAVE-LOCK")

	log := &callLog{}
	svc := NewSettlementService(f.settlementRepo,
		loggingOrderRepo{OrderRepository: f.orderRepo, log: log},
		loggingSupplierRepo{SupplierRepository: f.supplierRepo, log: log},
		nil,
	)
	if _, err := svc.ApproveSettlement(settlement.ID, 1); err != nil {
		t.Fatalf("approve settlement failed: %v", err)
	}
	lockAt, listAt := log.index("supplier.lock"), log.index("orders.list_unpaid")
	if lockAt < 0 || listAt < 0 || lockAt > listAt {
		t.Fatalf("supplier row must be locked before listing unpaid orders, calls=%v", log.calls)
	}
	assertDecimal(t, "platform_debt", f.reloadSupplier(t, supplier.ID).PlatformDebt.Decimal, 0)
}

func TestApproveSettlementMismatchWhenNothingToReconcile(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 1150, 1000)
	f.checkout(t, product.ID, 1, "")

	settlement := declareSettlement(t, f, supplier.ID, 150, "WAVE-003")
	if _, err := f.settlements.ApproveSettlement(settlement.ID, 1); !errors.Is(err, ErrReconciliationMismatch) {
		t.Fatalf("expected ErrReconciliationMismatch, got %v", err)
	}
	stored, err := f.settlements.GetSettlement(settlement.ID, supplier.ID)
	if err != nil {
		t.Fatalf("get settlement failed: %v", err)
	}
	if stored.Status != constants.SettlementPending {
		t.Fatalf("settlement should stay pending, got %s", stored.Status)
	}
}

func TestApproveSettlementRollsBackOnFailure(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	first := deliverOrderWithMargin(t, f, supplier.ID, 150)
	second := deliverOrderWithMargin(t, f, supplier.ID, 250)
	settlement := declareSettlement(t, f, supplier.ID, 400, "WAVE-004")

	injected := errors.New("injected supplier write failure")
	if err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_supplier_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "suppliers" {
			_ = tx.AddError(injected)
		}
	}); err != nil {
		t.Fatalf("register callback failed: %v", err)
	}

	if _, err := f.settlements.ApproveSettlement(settlement.ID, 1); !errors.Is(err, injected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if err := f.db.Callback().Update().Remove("test:fail_supplier_update"); err != nil {
		t.Fatalf("remove callback failed: %v", err)
	}

	for _, id := range []uint{first.ID, second.ID} {
		if order := f.reloadOrder(t, id); order.SettlementStatus != constants.SettlementStatusUnpaid {
			t.Fatalf("order %d should stay unpaid after rollback, got %s", id, order.SettlementStatus)
		}
	}
	assertDecimal(t, "platform_debt after rollback", f.reloadSupplier(t, supplier.ID).PlatformDebt.Decimal, 400)
	stored, err := f.settlementRepo.GetByID(settlement.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload settlement failed: %v", err)
	}
	if stored.Status != constants.SettlementPending {
		t.Fatalf("settlement should stay pending after rollback, got %s", stored.Status)
	}
}

func TestRejectSettlementLeavesOrdersAndDebt(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	order := deliverOrderWithMargin(t, f, supplier.ID, 150)
	settlement := declareSettlement(t, f, supplier.ID, 150, "WAVE-005")

	if _, err := f.settlements.RejectSettlement(settlement.ID, 1, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty reason should fail validation, got %v", err)
	}
	rejected, err := f.settlements.RejectSettlement(settlement.ID, 1, "transfer not received")
	if err != nil {
		t.Fatalf("reject settlement failed: %v", err)
	}
	if rejected.Status != constants.SettlementRejected || rejected.RejectReason != "transfer not received" {
		t.Fatalf("unexpected rejected settlement: %+v", rejected)
	}
	if stored := f.reloadOrder(t, order.ID); stored.SettlementStatus != constants.SettlementStatusUnpaid {
		t.Fatalf("order should stay unpaid")
	}
	assertDecimal(t, "platform_debt", f.reloadSupplier(t, supplier.ID).PlatformDebt.Decimal, 150)

	if _, err := f.settlements.ApproveSettlement(settlement.ID, 1); !errors.Is(err, ErrSettlementNotPending) {
		t.Fatalf("rejected settlement cannot be approved, got %v", err)
	}
}

func TestDeclareSettlementValidation(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")

	if _, err := f.settlements.DeclareSettlement(DeclareSettlementInput{SupplierID: supplier.ID, Amount: models.NewMoneyFromInt(0), TransactionRef: "X"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.settlements.DeclareSettlement(DeclareSettlementInput{SupplierID: supplier.ID, Amount: models.NewMoneyFromInt(10), TransactionRef: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty ref, got %v", err)
	}
	declareSettlement(t, f, supplier.ID, 10, "DUP-1")
	if _, err := f.settlements.DeclareSettlement(DeclareSettlementInput{SupplierID: supplier.ID, Amount: models.NewMoneyFromInt(10), TransactionRef: "DUP-1"}); !errors.Is(err, ErrSettlementRefDuplicate) {
		t.Fatalf("expected ErrSettlementRefDuplicate, got %v", err)
	}

	list, total, err := f.settlements.ListSettlements(repository.SettlementListFilter{SupplierID: supplier.ID})
	if err != nil {
		t.Fatalf("list settlements failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("expected 1 settlement, got %d", total)
	}
	if _, err := f.settlements.GetSettlement(list[0].ID, supplier.ID+100); !errors.Is(err, ErrSettlementNotFound) {
		t.Fatalf("foreign supplier should not see settlement, got %v", err)
	}
}
