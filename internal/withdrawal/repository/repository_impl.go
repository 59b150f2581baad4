package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/withdrawal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, withdrawal *domain.Withdrawal) error {
	return db.WithContext(ctx).Create(withdrawal).Error
}

func (r *repo) FindInOrg(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (*domain.Withdrawal, error) {
	var withdrawal domain.Withdrawal
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&withdrawal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID string) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("date desc, created_at desc").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID string, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		Delete(&domain.Withdrawal{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) SumAmountByOrg(ctx context.Context, db *gorm.DB, orgID string) (float64, error) {
	var total float64
	err := db.WithContext(ctx).
		Model(&domain.Withdrawal{}).
		Where("org_id = ?", orgID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
