package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"gorm.io/gorm"
)

type Repository interface {
	ListActiveByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]authdomain.User, error)
	FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*authdomain.User, error)
	// CountActiveAdmins counts active org_admin members, excluding one id.
	CountActiveAdmins(ctx context.Context, db *gorm.DB, orgID string, exclude snowflake.ID) (int64, error)
	UpdateOrgRole(ctx context.Context, db *gorm.DB, id snowflake.ID, orgRole string, at time.Time) error
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
