package service

import (
	"testing"
)

func TestResolveTierThresholds(t *testing.T) {
	rules := DefaultConfigRules()
	cases := []struct {
		sales int64
		want  string
	}{
		{0, "standard"},
		{99, "standard"},
		{100, "premium"},
		{150, "premium"},
		{499, "premium"},
		{500, "elite"},
		{100000, "elite"},
	}
	for _, tc := range cases {
		if got := ResolveTier(tc.sales, rules).Name; got != tc.want {
			t.Fatalf("sales=%d want %s got %s", tc.sales, tc.want, got)
		}
	}
}

func TestResolveTierMonotonic(t *testing.T) {
	rules := DefaultConfigRules()
	prev := ResolveTier(0, rules).MinSales
	for sales := int64(1); sales <= 1200; sales++ {
		current := ResolveTier(sales, rules).MinSales
		if current < prev {
			t.Fatalf("tier decreased at sales=%d", sales)
		}
		prev = current
	}
}

func TestResolveTierBelowAllThresholdsFallsBackToLowest(t *testing.T) {
	rules := ConfigRules{Tiers: []Tier{
		{Name: "gold", MinSales: 50},
		{Name: "silver", MinSales: 10},
	}}
	if got := ResolveTier(3, rules).Name; got != "silver" {
		t.Fatalf("expected lowest tier silver, got %s", got)
	}
	if got := ResolveTier(3, ConfigRules{}).Name; got != "" {
		t.Fatalf("expected empty tier for empty rules, got %s", got)
	}
}

func TestResolveTierProgress(t *testing.T) {
	rules := DefaultConfigRules()

	progress := ResolveTierProgress(25, rules)
	if progress.Current.Name != "standard" || progress.Next == nil || progress.Next.Name != "premium" {
		t.Fatalf("unexpected progress tiers: %+v", progress)
	}
	if progress.SalesToNext != 75 {
		t.Fatalf("sales to next want 75 got %d", progress.SalesToNext)
	}
	if progress.ProgressPercent != 25 {
		t.Fatalf("progress want 25 got %v", progress.ProgressPercent)
	}

	top := ResolveTierProgress(900, rules)
	if top.Next != nil || top.ProgressPercent != 100 || top.SalesToNext != 0 {
		t.Fatalf("unexpected top tier progress: %+v", top)
	}
}
