package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var fixtureUserSeq uint64

// serviceFixture 基于内存 SQLite 的服务层测试环境
type serviceFixture struct {
	db             *gorm.DB
	lease          *cache.MemoryLease
	orderRepo      *repository.GormOrderRepository
	productRepo    *repository.GormProductRepository
	supplierRepo   *repository.GormSupplierRepository
	partnerRepo    *repository.GormPartnerRepository
	settlementRepo *repository.GormSettlementRepository
	withdrawalRepo *repository.GormWithdrawalRepository
	userRepo       *repository.GormUserRepository
	settings       *SettingService
	gate           *SupplierQueueGate
	orders         *OrderService
	settlements    *SettlementService
	withdrawals    *WithdrawalService
	products       *ProductService
	partners       *PartnerService
	auth           *AuthService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	f := &serviceFixture{
		db:             db,
		lease:          cache.NewMemoryLease(),
		orderRepo:      repository.NewOrderRepository(db),
		productRepo:    repository.NewProductRepository(db),
		supplierRepo:   repository.NewSupplierRepository(db),
		partnerRepo:    repository.NewPartnerRepository(db),
		settlementRepo: repository.NewSettlementRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		userRepo:       repository.NewUserRepository(db),
	}
	f.settings = NewSettingService(repository.NewSettingRepository(db))
	f.gate = NewSupplierQueueGate(f.orderRepo, f.supplierRepo, f.lease, time.Hour)
	f.orders = NewOrderService(f.orderRepo, f.productRepo, f.supplierRepo, f.partnerRepo, f.settings, f.gate, nil)
	f.settlements = NewSettlementService(f.settlementRepo, f.orderRepo, f.supplierRepo, nil)
	f.withdrawals = NewWithdrawalService(f.withdrawalRepo, f.partnerRepo, f.settings, nil)
	f.products = NewProductService(f.productRepo, f.supplierRepo, f.partnerRepo, f.settings)
	f.partners = NewPartnerService(f.partnerRepo, f.withdrawalRepo, f.settings)
	f.auth = NewAuthService(&config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
	}, f.userRepo)
	return f
}

func nextFixtureUserID() uint {
	return uint(atomic.AddUint64(&fixtureUserSeq, 1))
}

func (f *serviceFixture) createSupplier(t *testing.T, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		UserID: nextFixtureUserID(),
		Name:   name,
		Status: constants.SupplierStatusActive,
	}
	if err := f.supplierRepo.Create(supplier); err != nil {
		t.Fatalf("create supplier failed: %v", err)
	}
	return supplier
}

func (f *serviceFixture) createPartner(t *testing.T, code string, sales int64) *models.Partner {
	t.Helper()
	partner := &models.Partner{
		UserID:              nextFixtureUserID(),
		Name:                "partner " + code,
		PromoCode:           code,
		IsActive:            true,
		TotalValidatedSales: sales,
	}
	if err := f.partnerRepo.Create(partner); err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	return partner
}

func (f *serviceFixture) createActiveProduct(t *testing.T, supplierID uint, price, cost int64) *models.Product {
	t.Helper()
	product := &models.Product{
		SupplierID:     supplierID,
		Name:           fmt.Sprintf("dish-%d-%d", price, cost),
		BuyingCost:     models.NewMoneyFromInt(cost),
		ProposedPrice:  models.NewMoneyFromInt(price),
		SellingPrice:   models.NewMoneyFromInt(price),
		PlatformMargin: models.NewMoneyFromInt(price - cost),
		Status:         constants.ProductStatusActive,
	}
	if err := f.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *serviceFixture) checkout(t *testing.T, productID uint, quantity int, promo string) *models.Order {
	t.Helper()
	order, err := f.orders.Checkout(CheckoutInput{
		CustomerName:    "Awa",
		CustomerPhone:   "770000000",
		DeliveryAddress: "Plateau",
		PromoCode:       promo,
		Items:           []CheckoutItem{{ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func (f *serviceFixture) reloadPartner(t *testing.T, id uint) *models.Partner {
	t.Helper()
	partner, err := f.partnerRepo.GetByID(id)
	if err != nil || partner == nil {
		t.Fatalf("reload partner failed: %v", err)
	}
	return partner
}

func (f *serviceFixture) reloadSupplier(t *testing.T, id uint) *models.Supplier {
	t.Helper()
	supplier, err := f.supplierRepo.GetByID(id)
	if err != nil || supplier == nil {
		t.Fatalf("reload supplier failed: %v", err)
	}
	return supplier
}

func (f *serviceFixture) reloadOrder(t *testing.T, id uint) *models.Order {
	t.Helper()
	order, err := f.orderRepo.GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s want %d, got %s", field, want, got.String())
	}
}
