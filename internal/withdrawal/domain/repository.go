package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, withdrawal *Withdrawal) error
	FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*Withdrawal, error)
	ListByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]Withdrawal, error)
	Delete(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (bool, error)
	SumAmountByOrg(ctx context.Context, db *gorm.DB, orgID string) (float64, error)
}
