package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByOrgID(ctx context.Context, db *gorm.DB, orgID string) (*Organization, error)
	// LockByOrgID loads the row with a write lock where the dialect supports
	// one, serializing balance-sensitive operations per tenant.
	LockByOrgID(ctx context.Context, db *gorm.DB, orgID string) (*Organization, error)
	NextOrgID(ctx context.Context, db *gorm.DB) (string, error)
	Update(ctx context.Context, db *gorm.DB, org *Organization) error
	SetOwner(ctx context.Context, db *gorm.DB, id snowflake.ID, userID snowflake.ID) error
}
