package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, week *Week) error
	FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*Week, error)
	FindByOrgWeekYear(ctx context.Context, db *gorm.DB, orgID string, weekNumber, year int) (*Week, error)
	ListByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]Week, error)
	ListByOrgUser(ctx context.Context, db *gorm.DB, orgID string, userID snowflake.ID) ([]Week, error)
	Update(ctx context.Context, db *gorm.DB, week *Week) error
	Delete(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (bool, error)
	// SumSavingsByOrg totals the savings column across the organization's
	// records; the withdrawal sufficiency guard reads it under lock.
	SumSavingsByOrg(ctx context.Context, db *gorm.DB, orgID string) (float64, error)
}
