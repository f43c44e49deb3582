package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"

	"github.com/shopspring/decimal"
)

const (
	revenueTierNameMaxRune = 64
	revenueTiersMaxSize    = 20
)

// SurplusSplit 超额毛利分配比例
// 三者无需合计为 1，未分配部分归平台；partner + client 不得超过 1。
type SurplusSplit struct {
	Platform float64 `json:"platform"`
	Partner  float64 `json:"partner"`
	Client   float64 `json:"client"`
}

// Tier 推广等级
type Tier struct {
	Name           string       `json:"name"`
	MinSales       int64        `json:"min_sales"`
	BaseCommission models.Money `json:"base_commission"`
	BaseDiscount   models.Money `json:"base_discount"`
	MinPayout      models.Money `json:"min_payout"`
}

// ConfigRules 平台收益分配规则快照
// 每次计算由调用方读取一次并显式传入，计算过程中不可变。
type ConfigRules struct {
	BaseMargin   models.Money `json:"base_margin"`
	SurplusSplit SurplusSplit `json:"surplus_split"`
	Tiers        []Tier       `json:"tiers"`
}

// DefaultConfigRules 默认收益规则
func DefaultConfigRules() ConfigRules {
	return NormalizeConfigRules(ConfigRules{
		BaseMargin: models.NewMoneyFromInt(1000),
		SurplusSplit: SurplusSplit{
			Platform: 0.5,
			Partner:  0.3,
			Client:   0.2,
		},
		Tiers: []Tier{
			{
				Name:           "standard",
				MinSales:       0,
				BaseCommission: models.NewMoneyFromInt(150),
				BaseDiscount:   models.NewMoneyFromInt(150),
				MinPayout:      models.NewMoneyFromInt(2000),
			},
			{
				Name:           "premium",
				MinSales:       100,
				BaseCommission: models.NewMoneyFromInt(300),
				BaseDiscount:   models.NewMoneyFromInt(200),
				MinPayout:      models.NewMoneyFromInt(1500),
			},
			{
				Name:           "elite",
				MinSales:       500,
				BaseCommission: models.NewMoneyFromInt(400),
				BaseDiscount:   models.NewMoneyFromInt(250),
				MinPayout:      models.NewMoneyFromInt(1000),
			},
		},
	})
}

// NormalizeConfigRules 归一化规则：负值归零、比例限制在 [0,1]、等级按 min_sales 升序
func NormalizeConfigRules(rules ConfigRules) ConfigRules {
	rules.BaseMargin = nonNegativeMoney(rules.BaseMargin)
	rules.SurplusSplit = SurplusSplit{
		Platform: clampFraction(rules.SurplusSplit.Platform),
		Partner:  clampFraction(rules.SurplusSplit.Partner),
		Client:   clampFraction(rules.SurplusSplit.Client),
	}

	tiers := make([]Tier, 0, len(rules.Tiers))
	for _, tier := range rules.Tiers {
		tier.Name = strings.TrimSpace(tier.Name)
		if runes := []rune(tier.Name); len(runes) > revenueTierNameMaxRune {
			tier.Name = string(runes[:revenueTierNameMaxRune])
		}
		if tier.MinSales < 0 {
			tier.MinSales = 0
		}
		tier.BaseCommission = nonNegativeMoney(tier.BaseCommission)
		tier.BaseDiscount = nonNegativeMoney(tier.BaseDiscount)
		tier.MinPayout = nonNegativeMoney(tier.MinPayout)
		tiers = append(tiers, tier)
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinSales < tiers[j].MinSales
	})
	rules.Tiers = tiers
	return rules
}

// ValidateConfigRules 校验规则
func ValidateConfigRules(rules ConfigRules) error {
	normalized := NormalizeConfigRules(rules)
	if len(normalized.Tiers) == 0 {
		return fmt.Errorf("%w: 至少需要一个推广等级", ErrRulesInvalid)
	}
	if len(normalized.Tiers) > revenueTiersMaxSize {
		return fmt.Errorf("%w: 推广等级数量不能超过 %d", ErrRulesInvalid, revenueTiersMaxSize)
	}
	split := normalized.SurplusSplit
	if split.Partner+split.Client > 1+1e-9 {
		return fmt.Errorf("%w: 推广员与顾客分配比例之和不能超过 1", ErrRulesInvalid)
	}

	names := make(map[string]struct{}, len(normalized.Tiers))
	thresholds := make(map[int64]struct{}, len(normalized.Tiers))
	for _, tier := range normalized.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: 等级名称不能为空", ErrRulesInvalid)
		}
		key := strings.ToLower(tier.Name)
		if _, ok := names[key]; ok {
			return fmt.Errorf("%w: 等级名称重复 %s", ErrRulesInvalid, tier.Name)
		}
		names[key] = struct{}{}
		if _, ok := thresholds[tier.MinSales]; ok {
			return fmt.Errorf("%w: 等级门槛重复 %d", ErrRulesInvalid, tier.MinSales)
		}
		thresholds[tier.MinSales] = struct{}{}
	}
	return nil
}

// ConfigRulesToMap 转换为 settings 存储结构
func ConfigRulesToMap(rules ConfigRules) map[string]interface{} {
	normalized := NormalizeConfigRules(rules)
	tiers := make([]interface{}, 0, len(normalized.Tiers))
	for _, tier := range normalized.Tiers {
		tiers = append(tiers, map[string]interface{}{
			"name":            tier.Name,
			"min_sales":       tier.MinSales,
			"base_commission": tier.BaseCommission.String(),
			"base_discount":   tier.BaseDiscount.String(),
			"min_payout":      tier.MinPayout.String(),
		})
	}
	return map[string]interface{}{
		"base_margin": normalized.BaseMargin.String(),
		"surplus_split": map[string]interface{}{
			"platform": normalized.SurplusSplit.Platform,
			"partner":  normalized.SurplusSplit.Partner,
			"client":   normalized.SurplusSplit.Client,
		},
		"tiers": tiers,
	}
}

// ConfigRulesFromJSON 从 settings 存储结构解析规则，缺失字段回退 fallback
func ConfigRulesFromJSON(raw models.JSON) ConfigRules {
	return configRulesFromJSON(raw, DefaultConfigRules())
}

func configRulesFromJSON(raw models.JSON, fallback ConfigRules) ConfigRules {
	result := fallback
	if raw == nil {
		return NormalizeConfigRules(result)
	}

	if value, ok := raw["base_margin"]; ok {
		if parsed, err := parseSettingMoney(value); err == nil {
			result.BaseMargin = parsed
		}
	}
	if value, ok := raw["surplus_split"].(map[string]interface{}); ok {
		if parsed, err := parseSettingFloat(value["platform"]); err == nil {
			result.SurplusSplit.Platform = parsed
		}
		if parsed, err := parseSettingFloat(value["partner"]); err == nil {
			result.SurplusSplit.Partner = parsed
		}
		if parsed, err := parseSettingFloat(value["client"]); err == nil {
			result.SurplusSplit.Client = parsed
		}
	}
	if value, ok := raw["tiers"].([]interface{}); ok {
		tiers := make([]Tier, 0, len(value))
		for _, item := range value {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			tiers = append(tiers, tierFromJSON(entry))
		}
		if len(tiers) > 0 {
			result.Tiers = tiers
		}
	}
	return NormalizeConfigRules(result)
}

func tierFromJSON(entry map[string]interface{}) Tier {
	tier := Tier{Name: normalizeSettingText(entry["name"])}
	if parsed, err := parseSettingInt(entry["min_sales"]); err == nil {
		tier.MinSales = int64(parsed)
	}
	if parsed, err := parseSettingMoney(entry["base_commission"]); err == nil {
		tier.BaseCommission = parsed
	}
	if parsed, err := parseSettingMoney(entry["base_discount"]); err == nil {
		tier.BaseDiscount = parsed
	}
	if parsed, err := parseSettingMoney(entry["min_payout"]); err == nil {
		tier.MinPayout = parsed
	}
	return tier
}

// GetConfigRules 读取收益规则（未配置时返回默认值）
func (s *SettingService) GetConfigRules() (ConfigRules, error) {
	fallback := DefaultConfigRules()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyRevenueRules)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return configRulesFromJSON(value, fallback), nil
}

// UpdateConfigRules 更新收益规则
func (s *SettingService) UpdateConfigRules(rules ConfigRules) (ConfigRules, error) {
	normalized := NormalizeConfigRules(rules)
	if err := ValidateConfigRules(normalized); err != nil {
		return ConfigRules{}, err
	}
	if _, err := s.Update(constants.SettingKeyRevenueRules, ConfigRulesToMap(normalized)); err != nil {
		return ConfigRules{}, err
	}
	return normalized, nil
}

func clampFraction(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return math.Round(value*10000) / 10000
}

func nonNegativeMoney(value models.Money) models.Money {
	if value.Decimal.LessThan(decimal.Zero) {
		return models.Money{Decimal: decimal.Zero}
	}
	return models.NewMoneyFromDecimal(value.Decimal)
}
