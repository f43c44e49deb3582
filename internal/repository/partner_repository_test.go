package repository

import (
	"testing"

	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestPartnerRepositoryCreditCommission(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewPartnerRepository(db)
	active := createTestPartner(t, db, "ACTIVE1", true)
	inactive := createTestPartner(t, db, "IDLE1", false)

	affected, err := repo.CreditCommission(active.ID, decimal.NewFromInt(500))
	if err != nil || affected != 1 {
		t.Fatalf("credit active partner want 1 row, got %d err=%v", affected, err)
	}
	affected, err = repo.CreditCommission(inactive.ID, decimal.NewFromInt(500))
	if err != nil || affected != 0 {
		t.Fatalf("credit inactive partner want 0 rows, got %d err=%v", affected, err)
	}

	reloaded, err := repo.GetByID(active.ID)
	if err != nil {
		t.Fatalf("reload partner failed: %v", err)
	}
	if !reloaded.WalletBalance.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("wallet balance want 500 got %s", reloaded.WalletBalance.String())
	}
	if !reloaded.TotalEarnings.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("total earnings want 500 got %s", reloaded.TotalEarnings.String())
	}
	if reloaded.TotalValidatedSales != 1 {
		t.Fatalf("validated sales want 1 got %d", reloaded.TotalValidatedSales)
	}
}

func TestPartnerRepositoryDebitWalletIsConditional(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewPartnerRepository(db)
	partner := createTestPartner(t, db, "DEBIT1", true)
	if _, err := repo.CreditCommission(partner.ID, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	affected, err := repo.DebitWallet(partner.ID, decimal.NewFromInt(400))
	if err != nil || affected != 0 {
		t.Fatalf("overdraft debit want 0 rows, got %d err=%v", affected, err)
	}
	affected, err = repo.DebitWallet(partner.ID, decimal.NewFromInt(300))
	if err != nil || affected != 1 {
		t.Fatalf("exact debit want 1 row, got %d err=%v", affected, err)
	}

	reloaded, err := repo.GetByID(partner.ID)
	if err != nil {
		t.Fatalf("reload partner failed: %v", err)
	}
	if !reloaded.WalletBalance.Decimal.IsZero() {
		t.Fatalf("wallet balance want 0 got %s", reloaded.WalletBalance.String())
	}
	if !reloaded.TotalWithdrawn.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("total withdrawn want 300 got %s", reloaded.TotalWithdrawn.String())
	}
}

func TestPartnerRepositoryLookupByPromoCodeAndReference(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewPartnerRepository(db)
	partner := createTestPartner(t, db, "CODE42", true)

	found, err := repo.GetByPromoCode("  code42 ")
	if err != nil {
		t.Fatalf("get by promo code failed: %v", err)
	}
	if found == nil || found.ID != partner.ID {
		t.Fatalf("promo code lookup should be case-insensitive")
	}

	txn := &models.PartnerWalletTransaction{
		PartnerID:    partner.ID,
		Type:         "commission",
		Direction:    "in",
		Amount:       models.NewMoneyFromInt(100),
		BalanceAfter: models.NewMoneyFromInt(100),
		Reference:    "commission:order:1",
	}
	if err := repo.CreateTransaction(txn); err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	duplicate := *txn
	duplicate.ID = 0
	if err := repo.CreateTransaction(&duplicate); err == nil {
		t.Fatalf("duplicate reference should violate unique index")
	}

	got, err := repo.GetTransactionByReference("commission:order:1")
	if err != nil || got == nil {
		t.Fatalf("get transaction by reference failed: %v", err)
	}
	missing, err := repo.GetTransactionByReference("commission:order:2")
	if err != nil || missing != nil {
		t.Fatalf("missing reference should return nil, nil")
	}
}
