package repository

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testUserSeq atomic.Uint32

func nextTestUserID() uint {
	return uint(testUserSeq.Add(1))
}

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func createTestSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		UserID: nextTestUserID(),
		Name:   name,
		Status: constants.SupplierStatusActive,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier failed: %v", err)
	}
	return supplier
}

func createTestPartner(t *testing.T, db *gorm.DB, code string, active bool) *models.Partner {
	t.Helper()
	partner := &models.Partner{
		UserID:    nextTestUserID(),
		Name:      "partner-" + code,
		PromoCode: code,
		IsActive:  true,
	}
	if err := db.Create(partner).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	if !active {
		// gorm 忽略 bool 零值，单独更新
		if err := db.Model(partner).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate partner failed: %v", err)
		}
		partner.IsActive = false
	}
	return partner
}

func createTestOrder(t *testing.T, db *gorm.DB, code string, supplierID uint, status constants.OrderStatus, createdAt time.Time, margin int64) *models.Order {
	t.Helper()
	order := &models.Order{
		Code:             code,
		SupplierID:       supplierID,
		FulfillmentType:  constants.FulfillmentTypeDelivery,
		Status:           status,
		TotalAmount:      models.NewMoneyFromInt(margin * 3),
		TotalCost:        models.NewMoneyFromInt(margin * 2),
		PlatformMargin:   models.NewMoneyFromInt(margin),
		SettlementStatus: constants.SettlementStatusUnpaid,
		CreatedAt:        createdAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
