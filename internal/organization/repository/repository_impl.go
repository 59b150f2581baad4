package repository

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/organization/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orgIDPattern = regexp.MustCompile(`^org_(\d+)$`)

// ValidOrgID reports whether raw is a well-formed public organization id.
func ValidOrgID(raw string) bool {
	return orgIDPattern.MatchString(raw)
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Create(org).Error
}

func (r *repo) FindByOrgID(ctx context.Context, db *gorm.DB, orgID string) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) LockByOrgID(ctx context.Context, db *gorm.DB, orgID string) (*domain.Organization, error) {
	stmt := db.WithContext(ctx)
	// sqlite serializes writers on its own and rejects FOR UPDATE.
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var org domain.Organization
	err := stmt.Where("org_id = ?", orgID).First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// NextOrgID allocates the next sequential public id by scanning existing ids
// and taking max suffix + 1. Races are caught by the unique index on org_id;
// callers retry once on a duplicate-key error.
func (r *repo) NextOrgID(ctx context.Context, db *gorm.DB) (string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("org_id LIKE ?", "org_%").
		Pluck("org_id", &ids).Error
	if err != nil {
		return "", err
	}

	max := 0
	for _, id := range ids {
		m := orgIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return "org_" + strconv.Itoa(max+1), nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	org.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(org).Error
}

func (r *repo) SetOwner(ctx context.Context, db *gorm.DB, id snowflake.ID, userID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"created_by": userID,
			"owner_id":   userID,
			"updated_at": time.Now().UTC(),
		}).Error
}
