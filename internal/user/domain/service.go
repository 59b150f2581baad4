package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
)

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	OrgRole   string `json:"orgRole"`
}

type UpdateUserRoleRequest struct {
	OrgRole string `json:"orgRole" binding:"required"`
}

// Service manages the members of the caller's organization. Every operation
// is tenant-scoped; rows from other organizations are invisible.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (authdomain.User, error)
	List(ctx context.Context) ([]authdomain.User, error)
	Get(ctx context.Context, id snowflake.ID) (authdomain.User, error)
	UpdateRole(ctx context.Context, id snowflake.ID, req UpdateUserRoleRequest) (authdomain.User, error)
	// Delete deactivates the user. Rows are never removed.
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidRole    = errors.New("invalid organization role")
	ErrSelfRoleChange = errors.New("you cannot change your own role")
	ErrSelfDelete     = errors.New("you cannot delete yourself")
	ErrLastAdmin      = errors.New("organization must have at least one admin")
)
