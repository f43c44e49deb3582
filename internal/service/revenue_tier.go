package service

import "math"

// TierProgress 推广员等级进度
type TierProgress struct {
	Current         Tier    `json:"current"`
	Next            *Tier   `json:"next,omitempty"`
	TotalSales      int64   `json:"total_sales"`
	SalesToNext     int64   `json:"sales_to_next"`
	ProgressPercent float64 `json:"progress_percent"`
}

// ResolveTier 根据累计已确认销售笔数解析等级
// 取 min_sales <= sales 的最高等级；低于所有门槛时取最低等级。
func ResolveTier(totalValidatedSales int64, rules ConfigRules) Tier {
	index := resolveTierIndex(totalValidatedSales, rules)
	if index < 0 {
		return Tier{}
	}
	return rules.Tiers[index]
}

// ResolveTierProgress 计算当前等级及距离下一等级的进度
func ResolveTierProgress(totalValidatedSales int64, rules ConfigRules) TierProgress {
	if totalValidatedSales < 0 {
		totalValidatedSales = 0
	}
	progress := TierProgress{TotalSales: totalValidatedSales, ProgressPercent: 100}
	index := resolveTierIndex(totalValidatedSales, rules)
	if index < 0 {
		return progress
	}
	progress.Current = rules.Tiers[index]

	nextIndex := -1
	for i, tier := range rules.Tiers {
		if tier.MinSales > progress.Current.MinSales && (nextIndex < 0 || tier.MinSales < rules.Tiers[nextIndex].MinSales) {
			nextIndex = i
		}
	}
	if nextIndex < 0 {
		return progress
	}

	next := rules.Tiers[nextIndex]
	progress.Next = &next
	progress.SalesToNext = next.MinSales - totalValidatedSales
	span := next.MinSales - progress.Current.MinSales
	done := totalValidatedSales - progress.Current.MinSales
	if done < 0 {
		done = 0
	}
	percent := float64(done) / float64(span) * 100
	progress.ProgressPercent = math.Min(100, math.Round(percent*100)/100)
	return progress
}

// resolveTierIndex 不依赖 tiers 的排列顺序
func resolveTierIndex(sales int64, rules ConfigRules) int {
	if len(rules.Tiers) == 0 {
		return -1
	}
	best := -1
	lowest := 0
	for i, tier := range rules.Tiers {
		if tier.MinSales < rules.Tiers[lowest].MinSales {
			lowest = i
		}
		if tier.MinSales <= sales && (best < 0 || tier.MinSales > rules.Tiers[best].MinSales) {
			best = i
		}
	}
	if best < 0 {
		return lowest
	}
	return best
}
