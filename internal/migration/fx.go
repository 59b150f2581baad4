package migration

import (
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	organizationdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	withdrawaldomain "github.com/smallbiznis/petalbook/internal/withdrawal/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		// The SQL migrations are written for postgres. Other dialects
		// (sqlite in local development) fall back to schema sync from the
		// models.
		if conn.Dialector.Name() != "postgres" {
			return conn.AutoMigrate(
				&authdomain.User{},
				&organizationdomain.Organization{},
				&weekdomain.Week{},
				&withdrawaldomain.Withdrawal{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
