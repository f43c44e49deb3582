package service

import (
	"errors"
	"testing"

	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
)

func scenarioRules() ConfigRules {
	return NormalizeConfigRules(ConfigRules{
		BaseMargin:   models.NewMoneyFromInt(1000),
		SurplusSplit: SurplusSplit{Platform: 0.5, Partner: 0.3, Client: 0.2},
		Tiers: []Tier{
			{Name: "standard", MinSales: 0, BaseCommission: models.NewMoneyFromInt(150), BaseDiscount: models.NewMoneyFromInt(150), MinPayout: models.NewMoneyFromInt(2000)},
			{Name: "premium", MinSales: 100, BaseCommission: models.NewMoneyFromInt(300), BaseDiscount: models.NewMoneyFromInt(200), MinPayout: models.NewMoneyFromInt(1500)},
		},
	})
}

func assertMoney(t *testing.T, field string, got models.Money, want int64) {
	t.Helper()
	if !got.Decimal.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s want %d got %s", field, want, got.String())
	}
}

func TestCalculateBenefitStandardTier(t *testing.T) {
	result := CalculateBenefit(decimal.NewFromInt(3000), decimal.NewFromInt(1500), 0, scenarioRules())

	if result.TierName != "standard" {
		t.Fatalf("tier want standard got %s", result.TierName)
	}
	assertMoney(t, "margin", result.RealMargin, 1500)
	assertMoney(t, "surplus", result.Surplus, 500)
	assertMoney(t, "commission", result.CommissionPartner, 300)
	assertMoney(t, "discount", result.DiscountClient, 250)
	assertMoney(t, "platform_gain", result.PlatformGain, 950)
	assertMoney(t, "final_price", result.FinalPrice, 2750)
}

func TestCalculateBenefitPremiumTier(t *testing.T) {
	result := CalculateBenefit(decimal.NewFromInt(3000), decimal.NewFromInt(1500), 150, scenarioRules())

	if result.TierName != "premium" {
		t.Fatalf("tier want premium got %s", result.TierName)
	}
	assertMoney(t, "commission", result.CommissionPartner, 450)
	assertMoney(t, "discount", result.DiscountClient, 300)
	assertMoney(t, "platform_gain", result.PlatformGain, 750)
	assertMoney(t, "final_price", result.FinalPrice, 2700)
}

func TestCalculateBenefitRoundsSharesIndependently(t *testing.T) {
	rules := scenarioRules()
	rules.SurplusSplit = SurplusSplit{Partner: 0.25, Client: 0.25}

	// surplus 2 -> 0.5 each, both round away from zero to 1
	result := CalculateBenefit(decimal.NewFromInt(3002), decimal.NewFromInt(2000), 0, rules)
	assertMoney(t, "commission", result.CommissionPartner, 151)
	assertMoney(t, "discount", result.DiscountClient, 151)
	assertMoney(t, "platform_gain", result.PlatformGain, 1002-151-151)
}

func TestCalculateBenefitNoSurplusBelowBase(t *testing.T) {
	result := CalculateBenefit(decimal.NewFromInt(1800), decimal.NewFromInt(1000), 0, scenarioRules())
	assertMoney(t, "surplus", result.Surplus, 0)
	assertMoney(t, "commission", result.CommissionPartner, 150)
	assertMoney(t, "discount", result.DiscountClient, 150)
	assertMoney(t, "platform_gain", result.PlatformGain, 500)
}

func TestCalculateBenefitReconcilesToMargin(t *testing.T) {
	rules := scenarioRules()
	rules.SurplusSplit = SurplusSplit{Platform: 0.1, Partner: 0.37, Client: 0.41}
	for price := int64(2000); price <= 9000; price += 137 {
		for _, sales := range []int64{0, 99, 100, 1000} {
			cost := decimal.NewFromInt(900)
			result := CalculateBenefit(decimal.NewFromInt(price), cost, sales, rules)
			sum := result.CommissionPartner.Add(result.DiscountClient.Decimal).Add(result.PlatformGain.Decimal)
			if !sum.Equal(result.RealMargin.Decimal) {
				t.Fatalf("price=%d sales=%d: commission+discount+gain=%s margin=%s", price, sales, sum, result.RealMargin.String())
			}
			if !result.FinalPrice.Add(result.DiscountClient.Decimal).Equal(decimal.NewFromInt(price)) {
				t.Fatalf("price=%d: final price does not reconcile", price)
			}
		}
	}
}

func TestCheckActivationMargin(t *testing.T) {
	rules := scenarioRules()
	if err := CheckActivationMargin(decimal.NewFromInt(1900), decimal.NewFromInt(1000), rules); !errors.Is(err, ErrMarginBelowBase) {
		t.Fatalf("expected margin below base, got %v", err)
	}
	if err := CheckActivationMargin(decimal.NewFromInt(1900), decimal.NewFromInt(1000), rules); !errors.Is(err, ErrValidation) {
		t.Fatalf("margin error should be a validation error")
	}

	rules.Tiers[1].BaseCommission = models.NewMoneyFromInt(900)
	if err := CheckActivationMargin(decimal.NewFromInt(2000), decimal.NewFromInt(1000), rules); !errors.Is(err, ErrNegativePlatformGain) {
		t.Fatalf("expected negative platform gain rejection, got %v", err)
	}

	if err := CheckActivationMargin(decimal.NewFromInt(3000), decimal.NewFromInt(1500), scenarioRules()); err != nil {
		t.Fatalf("expected healthy product accepted, got %v", err)
	}
}

func TestNoPartnerBenefitKeepsFullMargin(t *testing.T) {
	result := NoPartnerBenefit(decimal.NewFromInt(3000), decimal.NewFromInt(1500))
	assertMoney(t, "platform_gain", result.PlatformGain, 1500)
	assertMoney(t, "final_price", result.FinalPrice, 3000)
	assertMoney(t, "commission", result.CommissionPartner, 0)
}
