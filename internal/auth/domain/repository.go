package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository takes the db handle per call so services can run several
// operations inside one transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	UpdateRefreshToken(ctx context.Context, db *gorm.DB, id snowflake.ID, refreshToken *string) error
	UpdateLastLogin(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	UpdatePassword(ctx context.Context, db *gorm.DB, id snowflake.ID, hash string) error
}
