package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodhub-next/internal/constants"

	"gorm.io/gorm"
)

func TestSupplierQueueViewReportsActiveAndQueued(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)

	view, err := f.orders.SupplierQueue(supplier.ID)
	if err != nil {
		t.Fatalf("queue view failed: %v", err)
	}
	if view.Active != nil || view.QueuedCount != 0 {
		t.Fatalf("empty queue expected, got %+v", view)
	}

	first := f.checkout(t, product.ID, 1, "")
	f.checkout(t, product.ID, 1, "")
	f.checkout(t, product.ID, 1, "")

	view, err = f.orders.SupplierQueue(supplier.ID)
	if err != nil {
		t.Fatalf("queue view failed: %v", err)
	}
	if view.Active == nil || view.Active.ID != first.ID {
		t.Fatalf("oldest order should be active, got %+v", view.Active)
	}
	if view.QueuedCount != 2 {
		t.Fatalf("queued count want 2, got %d", view.QueuedCount)
	}
	if len(view.Active.Items) != 1 {
		t.Fatalf("active order should include items")
	}
}

func TestSupplierQueueGateRejectsSuspendedSupplier(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	order := f.checkout(t, product.ID, 1, "")

	if err := f.supplierRepo.UpdateStatus(supplier.ID, constants.SupplierStatusSuspended); err != nil {
		t.Fatalf("suspend supplier failed: %v", err)
	}
	if _, err := f.orders.StartPreparing(context.Background(), supplier.ID, order.ID); !errors.Is(err, ErrSupplierSuspended) {
		t.Fatalf("expected ErrSupplierSuspended, got %v", err)
	}
	if stored := f.reloadOrder(t, order.ID); stored.Status != constants.OrderStatusPending {
		t.Fatalf("order should stay pending, got %s", stored.Status)
	}
}

func TestSupplierQueueGateBusyWhenLeaseHeldByActiveOrder(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	first := f.checkout(t, product.ID, 1, "")
	second := f.checkout(t, product.ID, 1, "")

	ctx := context.Background()
	grant, err := f.lease.Acquire(ctx, supplierLeaseKey(supplier.ID), orderLeaseHolder(second.ID), f.gate.ttl)
	if err != nil || !grant.Granted {
		t.Fatalf("seed lease failed: grant=%+v err=%v", grant, err)
	}
	if _, err := f.gate.Admit(ctx, first); !errors.Is(err, ErrSupplierBusy) {
		t.Fatalf("expected ErrSupplierBusy, got %v", err)
	}
}

func TestSupplierQueueGateTakesOverStaleLease(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	finished := f.checkout(t, product.ID, 1, "")
	advanceOrder(t, f, finished.ID, constants.OrderStatusPreparing, constants.OrderStatusInDelivery, constants.OrderStatusDelivered)
	next := f.checkout(t, product.ID, 1, "")

	ctx := context.Background()
	// 模拟释放失败残留的租约
	grant, err := f.lease.Acquire(ctx, supplierLeaseKey(supplier.ID), orderLeaseHolder(finished.ID), f.gate.ttl)
	if err != nil || !grant.Granted {
		t.Fatalf("seed stale lease failed: grant=%+v err=%v", grant, err)
	}
	if _, err := f.orders.StartPreparing(ctx, supplier.ID, next.ID); err != nil {
		t.Fatalf("stale lease should be taken over: %v", err)
	}
	assertLeaseHolder(t, f, supplier.ID, orderLeaseHolder(next.ID))
}

// assertLeaseHolder 以外来持有者尝试获取租约，确认当前持有者
func assertLeaseHolder(t *testing.T, f *serviceFixture, supplierID uint, want string) {
	t.Helper()
	grant, err := f.lease.Acquire(context.Background(), supplierLeaseKey(supplierID), "order:outsider", f.gate.ttl)
	if err != nil {
		t.Fatalf("acquire lease failed: %v", err)
	}
	if grant.Granted || grant.Holder != want {
		t.Fatalf("lease holder want %s, got %+v", want, grant)
	}
}

func TestSupplierQueueGateAdmitReportsRenewal(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	order := f.checkout(t, product.ID, 1, "")

	ctx := context.Background()
	acquired, err := f.gate.Admit(ctx, order)
	if err != nil || !acquired {
		t.Fatalf("first admit should acquire the lease, acquired=%v err=%v", acquired, err)
	}
	acquired, err = f.gate.Admit(ctx, order)
	if err != nil || acquired {
		t.Fatalf("second admit should only renew, acquired=%v err=%v", acquired, err)
	}
}

func TestFailedStartKeepsLeaseItOnlyRenewed(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	order := f.checkout(t, product.ID, 1, "")

	ctx := context.Background()
	// 另一个并发调用已为同一订单取得租约
	if _, err := f.gate.Admit(ctx, order); err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	injected := errors.New("injected order write failure")
	if err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_order_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" {
			_ = tx.AddError(injected)
		}
	}); err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
	_, err := f.orders.StartPreparing(ctx, supplier.ID, order.ID)
	if removeErr := f.db.Callback().Update().Remove("test:fail_order_update"); removeErr != nil {
		t.Fatalf("remove callback failed: %v", removeErr)
	}
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	assertLeaseHolder(t, f, supplier.ID, orderLeaseHolder(order.ID))
}

func TestFailedStartReleasesFreshLease(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	order := f.checkout(t, product.ID, 1, "")

	injected := errors.New("injected order write failure")
	if err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_order_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" {
			_ = tx.AddError(injected)
		}
	}); err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
	_, err := f.orders.StartPreparing(context.Background(), supplier.ID, order.ID)
	if removeErr := f.db.Callback().Update().Remove("test:fail_order_update"); removeErr != nil {
		t.Fatalf("remove callback failed: %v", removeErr)
	}
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	grant, err := f.lease.Acquire(context.Background(), supplierLeaseKey(supplier.ID), "order:outsider", f.gate.ttl)
	if err != nil || !grant.Acquired() {
		t.Fatalf("lease should be released after failed start, grant=%+v err=%v", grant, err)
	}
}

func TestParseLeaseHolder(t *testing.T) {
	if got := parseLeaseHolder(orderLeaseHolder(42)); got != 42 {
		t.Fatalf("parse holder want 42, got %d", got)
	}
	for _, raw := range []string{"", "order:", "order:abc", "other:1"} {
		if got := parseLeaseHolder(raw); got != 0 {
			t.Fatalf("parse %q want 0, got %d", raw, got)
		}
	}
}
