package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/auth/password"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/config"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

const defaultOrgName = "Default Organization"

// Run seeds a default organization and its system admin account when
// SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are set. Re-running against an
// existing account is a no-op; the password of an already seeded admin is
// never overwritten.
func Run(conn *gorm.DB, cfg config.Config, orgRepo orgdomain.Repository, genID *snowflake.Node, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	ctx := context.Background()
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		err := tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.SeedAdminPassword)
		if err != nil {
			return err
		}

		orgID, err := orgRepo.NextOrgID(ctx, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		org := orgdomain.Organization{
			ID:       genID.Generate(),
			OrgID:    orgID,
			Name:     defaultOrgName,
			Slug:     slug.Make(defaultOrgName),
			IsActive: true,
			Settings: datatypes.JSONMap{
				"currency": "EUR",
				"timezone": "UTC",
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := orgRepo.Insert(ctx, tx, &org); err != nil {
			return err
		}

		admin := authdomain.User{
			ID:             genID.Generate(),
			Email:          email,
			Password:       hashed,
			FirstName:      "System",
			LastName:       "Admin",
			Role:           authdomain.SystemRoleAdmin,
			OrganizationID: org.OrgID,
			OrgRole:        string(authorization.RoleOrgAdmin),
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.WithContext(ctx).Create(&admin).Error; err != nil {
			return err
		}
		if err := orgRepo.SetOwner(ctx, tx, org.ID, admin.ID); err != nil {
			return err
		}

		log.Info("seeded system admin",
			zap.String("email", email),
			zap.String("org_id", org.OrgID),
		)
		return nil
	})
}
