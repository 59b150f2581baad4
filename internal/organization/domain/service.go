package domain

import (
	"context"
	"errors"
)

// UpdateOrganizationRequest uses pointers so absent fields are left alone.
// The public org id itself is immutable.
type UpdateOrganizationRequest struct {
	Name         *string        `json:"name"`
	BusinessName *string        `json:"businessName"`
	Description  *string        `json:"description"`
	Settings     map[string]any `json:"settings"`
}

type Service interface {
	// Get returns the caller's organization. Callers can never read another
	// tenant's record, regardless of role.
	Get(ctx context.Context, orgID string) (Organization, error)
	Update(ctx context.Context, orgID string, req UpdateOrganizationRequest) (Organization, error)
}

var (
	ErrNotFound    = errors.New("organization not found")
	ErrCrossTenant = errors.New("you can only access your own organization")
	ErrInvalidID   = errors.New("invalid organization id")
)
