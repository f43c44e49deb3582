package service

import (
	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
)

// BenefitResult 单件商品收益拆分结果
type BenefitResult struct {
	DiscountClient    models.Money `json:"discount_client"`
	CommissionPartner models.Money `json:"commission_partner"`
	PlatformGain      models.Money `json:"platform_gain"`
	FinalPrice        models.Money `json:"final_price"`
	TierName          string       `json:"tier_name"`
	RealMargin        models.Money `json:"real_margin"`
	Surplus           models.Money `json:"surplus"`
}

// CalculateBenefit 计算一件商品在指定推广等级下的佣金、优惠与平台收益
// commission + discount + platform_gain 恒等于 margin。
// 超额部分按比例分配后各自四舍五入（远离零）到整数单位，不做再平衡。
func CalculateBenefit(sellingPrice, buyingCost decimal.Decimal, partnerTotalSales int64, rules ConfigRules) BenefitResult {
	tier := ResolveTier(partnerTotalSales, rules)

	margin := sellingPrice.Sub(buyingCost)
	surplus := margin.Sub(rules.BaseMargin.Decimal)
	if surplus.LessThan(decimal.Zero) {
		surplus = decimal.Zero
	}

	partnerShare := surplus.Mul(decimal.NewFromFloat(rules.SurplusSplit.Partner)).Round(0)
	clientShare := surplus.Mul(decimal.NewFromFloat(rules.SurplusSplit.Client)).Round(0)

	commission := tier.BaseCommission.Decimal.Add(partnerShare)
	discount := tier.BaseDiscount.Decimal.Add(clientShare)
	platformGain := margin.Sub(commission).Sub(discount)

	return BenefitResult{
		DiscountClient:    models.NewMoneyFromDecimal(discount),
		CommissionPartner: models.NewMoneyFromDecimal(commission),
		PlatformGain:      models.NewMoneyFromDecimal(platformGain),
		FinalPrice:        models.NewMoneyFromDecimal(sellingPrice.Sub(discount)),
		TierName:          tier.Name,
		RealMargin:        models.NewMoneyFromDecimal(margin),
		Surplus:           models.NewMoneyFromDecimal(surplus),
	}
}

// NoPartnerBenefit 无推广码时的收益：无佣金无优惠，毛利全部归平台
func NoPartnerBenefit(sellingPrice, buyingCost decimal.Decimal) BenefitResult {
	margin := sellingPrice.Sub(buyingCost)
	return BenefitResult{
		DiscountClient:    models.NewMoneyFromInt(0),
		CommissionPartner: models.NewMoneyFromInt(0),
		PlatformGain:      models.NewMoneyFromDecimal(margin),
		FinalPrice:        models.NewMoneyFromDecimal(sellingPrice),
		RealMargin:        models.NewMoneyFromDecimal(margin),
		Surplus:           models.NewMoneyFromInt(0),
	}
}

// CheckActivationMargin 校验商品上架定价
// 毛利低于保底毛利直接拒绝；任一等级下平台收益为负同样拒绝。
func CheckActivationMargin(sellingPrice, buyingCost decimal.Decimal, rules ConfigRules) error {
	margin := sellingPrice.Sub(buyingCost)
	if margin.LessThan(rules.BaseMargin.Decimal) {
		return ErrMarginBelowBase
	}
	for _, tier := range rules.Tiers {
		result := CalculateBenefit(sellingPrice, buyingCost, tier.MinSales, rules)
		if result.PlatformGain.Decimal.LessThan(decimal.Zero) {
			return ErrNegativePlatformGain
		}
	}
	return nil
}
