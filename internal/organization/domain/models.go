package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Organization is a tenant. OrgID is the public sequential identifier
// (org_1, org_2, ...) and is immutable once allocated; every tenant-scoped
// row references it.
type Organization struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID        string            `gorm:"uniqueIndex;not null" json:"orgId"`
	Name         string            `gorm:"not null;index" json:"name"`
	Slug         string            `gorm:"index" json:"slug,omitempty"`
	BusinessName string            `json:"businessName,omitempty"`
	Description  string            `json:"description,omitempty"`
	CreatedBy    *snowflake.ID     `gorm:"index" json:"createdBy,omitempty"`
	OwnerID      *snowflake.ID     `gorm:"index" json:"ownerId,omitempty"`
	IsActive     bool              `gorm:"not null;default:true" json:"isActive"`
	Settings     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
