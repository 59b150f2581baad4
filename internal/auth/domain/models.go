package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// System-level roles, orthogonal to organization roles.
const (
	SystemRoleUser  = "user"
	SystemRoleAdmin = "admin"
)

// User is the identity record. Email is stored lowercased and is globally
// unique. Password and RefreshToken never serialize to JSON.
type User struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Email          string       `gorm:"uniqueIndex;not null" json:"email"`
	Password       string       `gorm:"not null" json:"-"`
	FirstName      string       `gorm:"not null" json:"firstName"`
	LastName       string       `gorm:"not null" json:"lastName"`
	BusinessName   string       `json:"businessName,omitempty"`
	Role           string       `gorm:"not null;default:user" json:"role"`
	OrganizationID string       `gorm:"index" json:"organizationId,omitempty"`
	OrgRole        string       `gorm:"not null;default:org_user" json:"orgRole"`
	IsActive       bool         `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt    *time.Time   `json:"lastLoginAt,omitempty"`
	RefreshToken   *string      `json:"-"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// IsSystemAdmin reports whether the user carries the system-level admin role.
func (u *User) IsSystemAdmin() bool {
	return u.Role == SystemRoleAdmin
}
