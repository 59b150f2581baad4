package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/week/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, week *domain.Week) error {
	return db.WithContext(ctx).Create(week).Error
}

func (r *repo) FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*domain.Week, error) {
	var week domain.Week
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&week).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	week.Normalize()
	return &week, nil
}

func (r *repo) FindByOrgWeekYear(ctx context.Context, db *gorm.DB, orgID string, weekNumber, year int) (*domain.Week, error) {
	var week domain.Week
	err := db.WithContext(ctx).
		Where("org_id = ? AND week_number = ? AND year = ?", orgID, weekNumber, year).
		First(&week).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	week.Normalize()
	return &week, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]domain.Week, error) {
	var weeks []domain.Week
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("year desc, week_number desc").
		Find(&weeks).Error
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		weeks[i].Normalize()
	}
	return weeks, nil
}

func (r *repo) ListByOrgUser(ctx context.Context, db *gorm.DB, orgID string, userID snowflake.ID) ([]domain.Week, error) {
	var weeks []domain.Week
	err := db.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Order("year desc, week_number desc").
		Find(&weeks).Error
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		weeks[i].Normalize()
	}
	return weeks, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, week *domain.Week) error {
	week.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(week).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		Delete(&domain.Week{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) SumSavingsByOrg(ctx context.Context, db *gorm.DB, orgID string) (float64, error) {
	var total float64
	err := db.WithContext(ctx).
		Model(&domain.Week{}).
		Where("org_id = ?", orgID).
		Select("COALESCE(SUM(savings), 0)").
		Scan(&total).Error
	return total, err
}
