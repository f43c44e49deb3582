package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var seedUserSeq uint

func newWorkerConsumer(t *testing.T) *Consumer {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	c := &provider.Container{
		Config:       &config.Config{},
		Lease:        cache.NewMemoryLease(),
		OrderRepo:    repository.NewOrderRepository(db),
		ProductRepo:  repository.NewProductRepository(db),
		SupplierRepo: repository.NewSupplierRepository(db),
		PartnerRepo:  repository.NewPartnerRepository(db),
		SettingRepo:  repository.NewSettingRepository(db),
	}
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.QueueGate = service.NewSupplierQueueGate(c.OrderRepo, c.SupplierRepo, c.Lease, time.Hour)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.SupplierRepo, c.PartnerRepo, c.SettingService, c.QueueGate, nil)
	return NewConsumer(c)
}

// seedDeliveredOrder 直接写入一笔已送达订单
func seedDeliveredOrder(t *testing.T, c *Consumer, deliveredAt time.Time) *models.Order {
	t.Helper()
	seedUserSeq++
	supplier := &models.Supplier{UserID: seedUserSeq, Name: "Chez Fatou", Status: constants.SupplierStatusActive}
	if err := c.SupplierRepo.Create(supplier); err != nil {
		t.Fatalf("create supplier failed: %v", err)
	}
	order := &models.Order{
		Code:             fmt.Sprintf("FH%d", deliveredAt.UnixNano()),
		SupplierID:       supplier.ID,
		CustomerName:     "Awa",
		CustomerPhone:    "770000000",
		FulfillmentType:  constants.FulfillmentTypeDelivery,
		Status:           constants.OrderStatusDelivered,
		TotalAmount:      models.NewMoneyFromInt(3000),
		TotalCost:        models.NewMoneyFromInt(1500),
		PlatformMargin:   models.NewMoneyFromInt(1500),
		SettlementStatus: constants.SettlementStatusUnpaid,
		DeliveredAt:      &deliveredAt,
	}
	if err := models.DB.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestSweeperCompletesDueOrdersWithoutQueue(t *testing.T) {
	c := newWorkerConsumer(t)
	now := time.Now()
	due := seedDeliveredOrder(t, c, now.Add(-72*time.Hour))
	fresh := seedDeliveredOrder(t, c, now.Add(-time.Hour))

	sweeper := NewSweeper(config.OrderConfig{AutoCompleteAfterHours: 48}, c)
	if sweeper == nil {
		t.Fatalf("sweeper should be created")
	}
	sweeper.now = func() time.Time { return now }

	completed, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if completed != 1 {
		t.Fatalf("completed want 1, got %d", completed)
	}
	got, err := c.OrderRepo.GetByID(due.ID)
	if err != nil || got == nil {
		t.Fatalf("reload due order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCompleted {
		t.Fatalf("due order should be completed, got %s", got.Status)
	}
	got, err = c.OrderRepo.GetByID(fresh.ID)
	if err != nil || got == nil {
		t.Fatalf("reload fresh order failed: %v", err)
	}
	if got.Status != constants.OrderStatusDelivered {
		t.Fatalf("fresh order should stay delivered, got %s", got.Status)
	}
}

func TestNewSweeperDisabled(t *testing.T) {
	if NewSweeper(config.OrderConfig{AutoCompleteAfterHours: 0}, &Consumer{}) != nil {
		t.Fatalf("sweeper should be nil when auto complete disabled")
	}
}

func TestHandleOrderAutoCompleteIsIdempotent(t *testing.T) {
	c := newWorkerConsumer(t)
	order := seedDeliveredOrder(t, c, time.Now().Add(-72*time.Hour))

	body, _ := json.Marshal(queue.OrderAutoCompletePayload{OrderID: order.ID})
	task := asynq.NewTask(queue.TaskOrderAutoComplete, body)
	if err := c.handleOrderAutoComplete(context.Background(), task); err != nil {
		t.Fatalf("first auto complete failed: %v", err)
	}
	if err := c.handleOrderAutoComplete(context.Background(), task); err != nil {
		t.Fatalf("repeated auto complete should be a no-op, got %v", err)
	}

	missing, _ := json.Marshal(queue.OrderAutoCompletePayload{OrderID: order.ID + 999})
	if err := c.handleOrderAutoComplete(context.Background(), asynq.NewTask(queue.TaskOrderAutoComplete, missing)); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestHandlersRejectMalformedPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskSettlementReviewed, []byte("{"))
	if err := c.handleSettlementReviewed(context.Background(), task); err == nil {
		t.Fatalf("malformed settlement payload should fail")
	}
	if err := c.handleWithdrawalReviewed(context.Background(), asynq.NewTask(queue.TaskWithdrawalReviewed, []byte("["))); err == nil {
		t.Fatalf("malformed withdrawal payload should fail")
	}
	// Redis 未启用时发布为空操作
	body, _ := json.Marshal(queue.OrderStatusChangedPayload{OrderID: 1, From: "pending", To: "preparing"})
	if err := c.handleOrderStatusChanged(context.Background(), asynq.NewTask(queue.TaskOrderStatusChanged, body)); err != nil {
		t.Fatalf("status changed handler failed: %v", err)
	}
}
