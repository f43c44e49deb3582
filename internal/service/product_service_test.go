package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
)

func proposeProduct(t *testing.T, f *serviceFixture, supplierID uint, cost, proposed int64) *models.Product {
	t.Helper()
	product, err := f.products.ProposeProduct(ProposeProductInput{
		SupplierID:    supplierID,
		Name:          "  Thieboudienne  ",
		Description:   "riz au poisson",
		BuyingCost:    decimal.NewFromInt(cost),
		ProposedPrice: decimal.NewFromInt(proposed),
	})
	if err != nil {
		t.Fatalf("propose product failed: %v", err)
	}
	return product
}

func TestProposeProductCreatesPendingValidation(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")

	product := proposeProduct(t, f, supplier.ID, 1500, 3000)
	if product.Status != constants.ProductStatusPendingValidation {
		t.Fatalf("status want pending_validation, got %s", product.Status)
	}
	if product.Name != "Thieboudienne" {
		t.Fatalf("name should be trimmed, got %q", product.Name)
	}
	if !product.SellingPrice.Decimal.IsZero() {
		t.Fatalf("selling price should stay empty before validation")
	}
	if _, err := f.products.GetPublicProduct(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("pending product should be hidden from public, got %v", err)
	}
}

func TestProposeProductValidation(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")

	cases := []struct {
		name  string
		input ProposeProductInput
		want  error
	}{
		{
			name:  "empty name",
			input: ProposeProductInput{SupplierID: supplier.ID, Name: " ", BuyingCost: decimal.NewFromInt(1), ProposedPrice: decimal.NewFromInt(2)},
			want:  ErrValidation,
		},
		{
			name:  "name too long",
			input: ProposeProductInput{SupplierID: supplier.ID, Name: strings.Repeat("a", 201), BuyingCost: decimal.NewFromInt(1), ProposedPrice: decimal.NewFromInt(2)},
			want:  ErrValidation,
		},
		{
			name:  "negative cost",
			input: ProposeProductInput{SupplierID: supplier.ID, Name: "x", BuyingCost: decimal.NewFromInt(-1), ProposedPrice: decimal.NewFromInt(2)},
			want:  ErrInvalidAmount,
		},
		{
			name:  "zero price",
			input: ProposeProductInput{SupplierID: supplier.ID, Name: "x", BuyingCost: decimal.NewFromInt(1), ProposedPrice: decimal.Zero},
			want:  ErrInvalidAmount,
		},
		{
			name:  "unknown supplier",
			input: ProposeProductInput{SupplierID: supplier.ID + 100, Name: "x", BuyingCost: decimal.NewFromInt(1), ProposedPrice: decimal.NewFromInt(2)},
			want:  ErrSupplierNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.products.ProposeProduct(tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateProductFreezesMargin(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := proposeProduct(t, f, supplier.ID, 1500, 2800)

	validated, err := f.products.ValidateProduct(product.ID, 7, decimal.NewFromInt(3000))
	if err != nil {
		t.Fatalf("validate product failed: %v", err)
	}
	if validated.Status != constants.ProductStatusActive {
		t.Fatalf("status want active, got %s", validated.Status)
	}
	assertDecimal(t, "selling_price", validated.SellingPrice.Decimal, 3000)
	assertDecimal(t, "platform_margin", validated.PlatformMargin.Decimal, 1500)
	if validated.ValidatedBy == nil || *validated.ValidatedBy != 7 {
		t.Fatalf("validated_by not recorded")
	}

	if _, err := f.products.ValidateProduct(product.ID, 7, decimal.NewFromInt(3000)); !errors.Is(err, ErrProductStatusInvalid) {
		t.Fatalf("active product cannot be validated again, got %v", err)
	}
}

func TestValidateProductRejectsThinMargin(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := proposeProduct(t, f, supplier.ID, 1500, 2400)

	if _, err := f.products.ValidateProduct(product.ID, 1, decimal.NewFromInt(2499)); !errors.Is(err, ErrMarginBelowBase) {
		t.Fatalf("margin 999 should be rejected, got %v", err)
	}
	stored, err := f.products.GetProduct(product.ID, supplier.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.Status != constants.ProductStatusPendingValidation {
		t.Fatalf("rejected activation must not change status, got %s", stored.Status)
	}
	if _, err := f.products.ValidateProduct(product.ID, 1, decimal.NewFromInt(2500)); err != nil {
		t.Fatalf("margin equal to base margin should pass, got %v", err)
	}
}

func TestValidateProductRejectsNegativePlatformGain(t *testing.T) {
	f := newServiceFixture(t)
	rules := DefaultConfigRules()
	rules.BaseMargin = models.NewMoneyFromInt(500)
	if _, err := f.settings.UpdateConfigRules(rules); err != nil {
		t.Fatalf("update rules failed: %v", err)
	}
	supplier := f.createSupplier(t, "Chez Fatou")
	product := proposeProduct(t, f, supplier.ID, 1000, 1600)

	// 毛利 600：elite 等级佣金 430、优惠 270，平台收益为负
	if _, err := f.products.ValidateProduct(product.ID, 1, decimal.NewFromInt(1600)); !errors.Is(err, ErrNegativePlatformGain) {
		t.Fatalf("expected ErrNegativePlatformGain, got %v", err)
	}
}

func TestRejectAndDeactivateProduct(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	pending := proposeProduct(t, f, supplier.ID, 1500, 3000)

	if _, err := f.products.RejectProduct(pending.ID, 1, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("reject without reason should fail, got %v", err)
	}
	rejected, err := f.products.RejectProduct(pending.ID, 1, "photo missing")
	if err != nil {
		t.Fatalf("reject product failed: %v", err)
	}
	if rejected.Status != constants.ProductStatusRejected || rejected.RejectReason != "photo missing" {
		t.Fatalf("unexpected rejected product: %+v", rejected)
	}

	active := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	inactive, err := f.products.DeactivateProduct(active.ID)
	if err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	if inactive.Status != constants.ProductStatusInactive {
		t.Fatalf("status want inactive, got %s", inactive.Status)
	}
	if _, err := f.products.DeactivateProduct(active.ID); !errors.Is(err, ErrProductStatusInvalid) {
		t.Fatalf("second deactivate should fail, got %v", err)
	}
	// 下架商品可重新定价上架
	if _, err := f.products.ValidateProduct(active.ID, 1, decimal.NewFromInt(3200)); err != nil {
		t.Fatalf("reactivate product failed: %v", err)
	}
}

func TestPreviewBenefit(t *testing.T) {
	f := newServiceFixture(t)
	supplier := f.createSupplier(t, "Chez Fatou")
	product := f.createActiveProduct(t, supplier.ID, 3000, 1500)
	f.createPartner(t, "AWA2024", 0)

	preview, err := f.products.PreviewBenefit(product.ID, "AWA2024", 2)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if !preview.PromoApplied || preview.TierName != "standard" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	assertDecimal(t, "final_price", preview.FinalPrice.Decimal, 2750)
	assertDecimal(t, "discount", preview.Discount.Decimal, 250)
	assertDecimal(t, "total_amount", preview.TotalAmount.Decimal, 5500)

	plain, err := f.products.PreviewBenefit(product.ID, "", 0)
	if err != nil {
		t.Fatalf("preview without promo failed: %v", err)
	}
	if plain.PromoApplied || plain.Quantity != 1 {
		t.Fatalf("unexpected plain preview: %+v", plain)
	}
	assertDecimal(t, "plain final_price", plain.FinalPrice.Decimal, 3000)

	if _, err := f.products.PreviewBenefit(product.ID, "NOPE9999", 1); !errors.Is(err, ErrPromoCodeInvalid) {
		t.Fatalf("unknown promo should fail, got %v", err)
	}
}
