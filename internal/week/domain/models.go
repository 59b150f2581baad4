package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SaleByDay is the per-day sale breakdown for the three selling days.
type SaleByDay struct {
	Thursday float64 `gorm:"column:sale_thursday;not null;default:0" json:"thursday"`
	Friday   float64 `gorm:"column:sale_friday;not null;default:0" json:"friday"`
	Saturday float64 `gorm:"column:sale_saturday;not null;default:0" json:"saturday"`
}

// Week is one business-week's purchase/sales/profit snapshot for one
// organization. (org_id, week_number, year) is unique.
//
// Quantity and Price are legacy columns kept for rows imported from the old
// format. Normalize folds them into the canonical fields at the storage-read
// boundary; nothing past the repository ever branches on them.
type Week struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID `gorm:"not null;index" json:"userId"`
	OrganizationID   string       `gorm:"column:org_id;not null;uniqueIndex:idx_weeks_org_week_year,priority:1" json:"organizationId"`
	WeekNumber       int          `gorm:"not null;uniqueIndex:idx_weeks_org_week_year,priority:2" json:"weekNumber"`
	Year             int          `gorm:"not null;uniqueIndex:idx_weeks_org_week_year,priority:3" json:"year"`
	StartDate        time.Time    `gorm:"not null" json:"startDate"`
	EndDate          time.Time    `gorm:"not null" json:"endDate"`
	TotalFlower      float64      `gorm:"not null;default:0" json:"totalFlower"`
	TotalBuyingPrice float64      `gorm:"not null;default:0" json:"totalBuyingPrice"`
	Sale             SaleByDay    `gorm:"embedded" json:"sale"`
	TotalSale        float64      `gorm:"not null;default:0" json:"totalSale"`
	Profit           float64      `gorm:"not null;default:0" json:"profit"`
	Revenue          float64      `gorm:"not null;default:0" json:"revenue"`
	Savings          float64      `gorm:"not null;default:0" json:"savings"`
	AvgBuyingPrice   float64      `gorm:"not null;default:0" json:"avgBuyingPrice"`
	AvgSalesPrice    float64      `gorm:"not null;default:0" json:"avgSalesPrice"`
	Quantity         *float64     `json:"-"`
	Price            *float64     `json:"-"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Normalize folds legacy quantity/price rows into the canonical shape:
// quantity substitutes for total flowers, quantity*price for buying price,
// sale amount and revenue. Canonical rows pass through unchanged.
func (w *Week) Normalize() {
	var legacyAmount float64
	if w.Quantity != nil && w.Price != nil {
		legacyAmount = *w.Quantity * *w.Price
	}
	if w.TotalFlower == 0 && w.Quantity != nil {
		w.TotalFlower = *w.Quantity
	}
	if w.TotalBuyingPrice == 0 {
		w.TotalBuyingPrice = legacyAmount
	}
	if w.TotalSale == 0 {
		w.TotalSale = legacyAmount
	}
	if w.Revenue == 0 {
		w.Revenue = w.TotalSale
	}
	if w.AvgBuyingPrice == 0 && w.AvgSalesPrice == 0 {
		w.RecomputeAverages()
	}
}

// RecomputeAverages derives the per-unit prices from the totals, rounded to
// two decimal places. Zero flowers yields zero averages, never a division.
func (w *Week) RecomputeAverages() {
	if w.TotalFlower > 0 {
		w.AvgBuyingPrice = round2(w.TotalBuyingPrice / w.TotalFlower)
		w.AvgSalesPrice = round2(w.TotalSale / w.TotalFlower)
		return
	}
	w.AvgBuyingPrice = 0
	w.AvgSalesPrice = 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
