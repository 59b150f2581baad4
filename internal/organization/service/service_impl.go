package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/organization/domain"
	"github.com/smallbiznis/petalbook/internal/organization/repository"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Authz authorization.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	authz authorization.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		repo:  p.Repo,
		authz: p.Authz,
	}
}

func (s *Service) Get(ctx context.Context, orgID string) (domain.Organization, error) {
	if _, err := s.guard(ctx, orgID, authorization.ActionOrganizationViewSettings); err != nil {
		return domain.Organization{}, err
	}

	org, err := s.repo.FindByOrgID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}
	return *org, nil
}

func (s *Service) Update(ctx context.Context, orgID string, req domain.UpdateOrganizationRequest) (domain.Organization, error) {
	if _, err := s.guard(ctx, orgID, authorization.ActionOrganizationManage); err != nil {
		return domain.Organization{}, err
	}

	org, err := s.repo.FindByOrgID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.BusinessName != nil {
		org.BusinessName = strings.TrimSpace(*req.BusinessName)
	}
	if req.Description != nil {
		org.Description = strings.TrimSpace(*req.Description)
	}

	// Settings merge key by key; omitting a key leaves it alone.
	if len(req.Settings) > 0 {
		if org.Settings == nil {
			org.Settings = datatypes.JSONMap{}
		}
		for key, value := range req.Settings {
			org.Settings[key] = value
		}
	}

	if err := s.repo.Update(ctx, s.db, org); err != nil {
		return domain.Organization{}, err
	}
	return *org, nil
}

// guard validates the requested org id, checks the caller's capability in its
// own organization and rejects cross-tenant access.
func (s *Service) guard(ctx context.Context, orgID string, action string) (orgcontext.Identity, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return orgcontext.Identity{}, authorization.ErrInvalidActor
	}
	if !repository.ValidOrgID(strings.TrimSpace(orgID)) {
		return orgcontext.Identity{}, domain.ErrInvalidID
	}
	if orgID != caller.OrgID {
		return orgcontext.Identity{}, domain.ErrCrossTenant
	}
	actor := fmt.Sprintf("user:%s", caller.UserID)
	if err := s.authz.Authorize(ctx, actor, caller.OrgID, authorization.ObjectOrganization, action); err != nil {
		return orgcontext.Identity{}, err
	}
	return caller, nil
}
