package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type SaleByDayRequest struct {
	Thursday float64 `json:"thursday" binding:"min=0"`
	Friday   float64 `json:"friday" binding:"min=0"`
	Saturday float64 `json:"saturday" binding:"min=0"`
}

type CreateWeekRequest struct {
	WeekNumber       int              `json:"weekNumber" binding:"required"`
	Year             int              `json:"year" binding:"required"`
	StartDate        time.Time        `json:"startDate" binding:"required"`
	EndDate          time.Time        `json:"endDate" binding:"required"`
	TotalFlower      float64          `json:"totalFlower" binding:"min=0"`
	TotalBuyingPrice float64          `json:"totalBuyingPrice" binding:"min=0"`
	Sale             SaleByDayRequest `json:"sale"`
	TotalSale        float64          `json:"totalSale" binding:"min=0"`
	Profit           float64          `json:"profit"`
	Revenue          float64          `json:"revenue" binding:"min=0"`
	Savings          *float64         `json:"savings"`
}

// SaleByDayPatch updates only the supplied days; absent days keep their
// existing value.
type SaleByDayPatch struct {
	Thursday *float64 `json:"thursday"`
	Friday   *float64 `json:"friday"`
	Saturday *float64 `json:"saturday"`
}

type UpdateWeekRequest struct {
	WeekNumber       *int            `json:"weekNumber"`
	Year             *int            `json:"year"`
	StartDate        *time.Time      `json:"startDate"`
	EndDate          *time.Time      `json:"endDate"`
	TotalFlower      *float64        `json:"totalFlower"`
	TotalBuyingPrice *float64        `json:"totalBuyingPrice"`
	Sale             *SaleByDayPatch `json:"sale"`
	TotalSale        *float64        `json:"totalSale"`
	Profit           *float64        `json:"profit"`
	Revenue          *float64        `json:"revenue"`
	Savings          *float64        `json:"savings"`
}

type Service interface {
	Create(ctx context.Context, req CreateWeekRequest) (Week, error)
	List(ctx context.Context) ([]Week, error)
	Get(ctx context.Context, id snowflake.ID) (Week, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateWeekRequest) (Week, error)
	Delete(ctx context.Context, id snowflake.ID) error
	// GetSummary aggregates the caller's visible records: the whole
	// organization for roles with full analytics, otherwise only the
	// caller's own records.
	GetSummary(ctx context.Context) (Summary, error)
}

var (
	ErrNotFound       = errors.New("week not found")
	ErrConflict       = errors.New("week already exists for this year")
	ErrInvalidRequest = errors.New("invalid week request")
)
