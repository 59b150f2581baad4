package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListActiveByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]authdomain.User, error) {
	var users []authdomain.User
	err := db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("created_at desc, id desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*authdomain.User, error) {
	var user authdomain.User
	err := db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) CountActiveAdmins(ctx context.Context, db *gorm.DB, orgID string, exclude snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&authdomain.User{}).
		Where("organization_id = ? AND org_role = ? AND is_active = ? AND id <> ?",
			orgID, string(authorization.RoleOrgAdmin), true, exclude).
		Count(&count).Error
	return count, err
}

func (r *repo) UpdateOrgRole(ctx context.Context, db *gorm.DB, id snowflake.ID, orgRole string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&authdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"org_role":   orgRole,
			"updated_at": at,
		}).Error
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&authdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": at,
		}).Error
}
