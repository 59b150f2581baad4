package domain

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeLegacyRow(t *testing.T) {
	w := Week{
		WeekNumber: 12,
		Year:       2023,
		Quantity:   floatPtr(40),
		Price:      floatPtr(2.5),
	}
	w.Normalize()

	if w.TotalFlower != 40 {
		t.Fatalf("expected total flower 40, got %v", w.TotalFlower)
	}
	if w.TotalBuyingPrice != 100 {
		t.Fatalf("expected total buying price 100, got %v", w.TotalBuyingPrice)
	}
	if w.TotalSale != 100 {
		t.Fatalf("expected total sale 100, got %v", w.TotalSale)
	}
	if w.Revenue != 100 {
		t.Fatalf("expected revenue 100, got %v", w.Revenue)
	}
	if w.AvgBuyingPrice != 2.5 || w.AvgSalesPrice != 2.5 {
		t.Fatalf("expected averages 2.5, got %v / %v", w.AvgBuyingPrice, w.AvgSalesPrice)
	}
}

func TestNormalizeCanonicalRowUnchanged(t *testing.T) {
	w := Week{
		TotalFlower:      50,
		TotalBuyingPrice: 120,
		TotalSale:        200,
		Revenue:          200,
		Profit:           80,
		AvgBuyingPrice:   2.4,
		AvgSalesPrice:    4,
		Quantity:         floatPtr(999),
		Price:            floatPtr(999),
	}
	before := w
	w.Normalize()

	if w.TotalFlower != before.TotalFlower || w.TotalBuyingPrice != before.TotalBuyingPrice ||
		w.TotalSale != before.TotalSale || w.Revenue != before.Revenue ||
		w.AvgBuyingPrice != before.AvgBuyingPrice || w.AvgSalesPrice != before.AvgSalesPrice {
		t.Fatalf("expected canonical row to pass through unchanged, got %+v", w)
	}
}

func TestRecomputeAverages(t *testing.T) {
	w := Week{TotalFlower: 3, TotalBuyingPrice: 10, TotalSale: 20}
	w.RecomputeAverages()

	if w.AvgBuyingPrice != 3.33 {
		t.Fatalf("expected avg buying price 3.33, got %v", w.AvgBuyingPrice)
	}
	if w.AvgSalesPrice != 6.67 {
		t.Fatalf("expected avg sales price 6.67, got %v", w.AvgSalesPrice)
	}
}

func TestRecomputeAveragesZeroFlower(t *testing.T) {
	w := Week{TotalFlower: 0, TotalBuyingPrice: 100, TotalSale: 200, AvgBuyingPrice: 9, AvgSalesPrice: 9}
	w.RecomputeAverages()

	if w.AvgBuyingPrice != 0 || w.AvgSalesPrice != 0 {
		t.Fatalf("expected zero averages for zero flowers, got %v / %v", w.AvgBuyingPrice, w.AvgSalesPrice)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	if summary.TotalWeeks != 0 {
		t.Fatalf("expected zero weeks, got %d", summary.TotalWeeks)
	}
	if summary.AverageProfit != 0 || summary.AverageRevenue != 0 || summary.AverageFlowers != 0 {
		t.Fatalf("expected zero averages, got %+v", summary)
	}
	if summary.BestWeek != nil {
		t.Fatalf("expected nil best week, got %+v", summary.BestWeek)
	}
}

func TestSummarize(t *testing.T) {
	weeks := []Week{
		{WeekNumber: 1, Year: 2025, TotalFlower: 10, TotalBuyingPrice: 20, TotalSale: 50, Profit: 30, Revenue: 50, Savings: 5},
		{WeekNumber: 2, Year: 2025, TotalFlower: 20, TotalBuyingPrice: 40, TotalSale: 100, Profit: 60, Revenue: 100, Savings: 10},
		{WeekNumber: 3, Year: 2025, TotalFlower: 30, TotalBuyingPrice: 60, TotalSale: 90, Profit: 30, Revenue: 90, Savings: 15},
	}
	summary := Summarize(weeks)

	if summary.TotalWeeks != 3 {
		t.Fatalf("expected 3 weeks, got %d", summary.TotalWeeks)
	}
	if summary.TotalFlowers != 60 || summary.TotalBuyingPrice != 120 || summary.TotalSales != 240 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.TotalProfit != 120 || summary.TotalRevenue != 240 || summary.TotalSavings != 30 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.AverageProfit != 40 || summary.AverageRevenue != 80 || summary.AverageFlowers != 20 {
		t.Fatalf("unexpected averages: %+v", summary)
	}
	if summary.BestWeek == nil || summary.BestWeek.WeekNumber != 2 || summary.BestWeek.Profit != 60 {
		t.Fatalf("unexpected best week: %+v", summary.BestWeek)
	}
}

func TestSummarizeBestWeekKeepsFirstOnTie(t *testing.T) {
	weeks := []Week{
		{WeekNumber: 5, Year: 2025, Profit: 40},
		{WeekNumber: 6, Year: 2025, Profit: 40},
	}
	summary := Summarize(weeks)

	if summary.BestWeek == nil || summary.BestWeek.WeekNumber != 5 {
		t.Fatalf("expected first week to win the tie, got %+v", summary.BestWeek)
	}
}
