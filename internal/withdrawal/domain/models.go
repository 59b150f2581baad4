package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Withdrawal is money taken out of an organization's accumulated savings.
// Rows are created and deleted, never updated in place.
type Withdrawal struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID `gorm:"not null;index" json:"userId"`
	OrganizationID string       `gorm:"column:org_id;not null;index" json:"organizationId"`
	Amount         float64      `gorm:"not null" json:"amount"`
	Date           time.Time    `gorm:"not null" json:"date"`
	Description    string       `json:"description,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Summary is the aggregate over an organization's withdrawals against its
// recorded savings. AvailableSavings is floored at zero; a race that
// over-withdraws never surfaces as a negative balance.
type Summary struct {
	TotalWithdrawals     float64 `json:"totalWithdrawals"`
	TotalSavings         float64 `json:"totalSavings"`
	AvailableSavings     float64 `json:"availableSavings"`
	TotalWithdrawalCount int     `json:"totalWithdrawalCount"`
}

// Summarize computes the withdrawal aggregate from the savings total and the
// set of withdrawal records.
func Summarize(totalSavings float64, withdrawals []Withdrawal) Summary {
	summary := Summary{
		TotalSavings:         totalSavings,
		TotalWithdrawalCount: len(withdrawals),
	}
	for i := range withdrawals {
		summary.TotalWithdrawals += withdrawals[i].Amount
	}
	available := totalSavings - summary.TotalWithdrawals
	if available < 0 {
		available = 0
	}
	summary.AvailableSavings = available
	return summary
}
