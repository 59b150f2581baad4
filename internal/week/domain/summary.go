package domain

// BestWeek identifies the record with the strictly highest profit.
type BestWeek struct {
	WeekNumber int     `json:"weekNumber"`
	Year       int     `json:"year"`
	Profit     float64 `json:"profit"`
}

// Summary is the aggregate over a set of weekly records.
type Summary struct {
	TotalWeeks       int       `json:"totalWeeks"`
	TotalFlowers     float64   `json:"totalFlowers"`
	TotalBuyingPrice float64   `json:"totalBuyingPrice"`
	TotalSales       float64   `json:"totalSales"`
	TotalProfit      float64   `json:"totalProfit"`
	TotalRevenue     float64   `json:"totalRevenue"`
	TotalSavings     float64   `json:"totalSavings"`
	AverageProfit    float64   `json:"averageProfit"`
	AverageRevenue   float64   `json:"averageRevenue"`
	AverageFlowers   float64   `json:"averageFlowers"`
	BestWeek         *BestWeek `json:"bestWeek"`
}

// Summarize aggregates canonical records. Averages are zero for an empty set,
// never a division by zero. BestWeek is the record with strictly maximum
// profit, the first one encountered on ties, and nil for an empty set.
func Summarize(weeks []Week) Summary {
	summary := Summary{TotalWeeks: len(weeks)}
	if len(weeks) == 0 {
		return summary
	}

	for i := range weeks {
		w := &weeks[i]
		summary.TotalFlowers += w.TotalFlower
		summary.TotalBuyingPrice += w.TotalBuyingPrice
		summary.TotalSales += w.TotalSale
		summary.TotalProfit += w.Profit
		summary.TotalRevenue += w.Revenue
		summary.TotalSavings += w.Savings

		if summary.BestWeek == nil || w.Profit > summary.BestWeek.Profit {
			summary.BestWeek = &BestWeek{
				WeekNumber: w.WeekNumber,
				Year:       w.Year,
				Profit:     w.Profit,
			}
		}
	}

	count := float64(len(weeks))
	summary.AverageProfit = summary.TotalProfit / count
	summary.AverageRevenue = summary.TotalRevenue / count
	summary.AverageFlowers = summary.TotalFlowers / count
	return summary
}
