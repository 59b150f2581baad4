package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/auth/password"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
	"github.com/smallbiznis/petalbook/internal/user/domain"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	AuthRepo authdomain.Repository
	Authz    authorization.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	authRepo authdomain.Repository
	authz    authorization.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("user.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		authRepo: p.AuthRepo,
		authz:    p.Authz,
	}
}

// Create adds a member to the caller's organization. System-level admins may
// always create users, as an operational escape hatch; everyone else needs
// the user-creation capability of their org role.
func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (authdomain.User, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return authdomain.User{}, authorization.ErrInvalidActor
	}
	if caller.SystemRole != authdomain.SystemRoleAdmin {
		if err := s.authorize(ctx, caller, authorization.ActionUserCreate); err != nil {
			return authdomain.User{}, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if email == "" || !strings.Contains(email, "@") {
		return authdomain.User{}, fmt.Errorf("%w: please provide a valid email address", authdomain.ErrInvalidRequest)
	}
	if firstName == "" || lastName == "" {
		return authdomain.User{}, fmt.Errorf("%w: first name and last name are required", authdomain.ErrInvalidRequest)
	}
	if err := password.Validate(req.Password); err != nil {
		return authdomain.User{}, fmt.Errorf("%w: %s", authdomain.ErrInvalidRequest, err)
	}

	orgRole := authorization.RoleOrgUser
	if strings.TrimSpace(req.OrgRole) != "" {
		parsed, valid := authorization.ParseOrgRole(req.OrgRole)
		if !valid {
			return authdomain.User{}, domain.ErrInvalidRole
		}
		orgRole = parsed
	}

	existing, err := s.authRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return authdomain.User{}, err
	}
	if existing != nil {
		return authdomain.User{}, authdomain.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return authdomain.User{}, err
	}

	now := s.clock.Now()
	user := authdomain.User{
		ID:             s.genID.Generate(),
		Email:          email,
		Password:       hash,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           authdomain.SystemRoleUser,
		OrganizationID: caller.OrgID,
		OrgRole:        string(orgRole),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.authRepo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return authdomain.User{}, authdomain.ErrEmailTaken
		}
		return authdomain.User{}, err
	}

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", user.OrganizationID),
		zap.String("org_role", user.OrgRole),
	)
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]authdomain.User, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return nil, authorization.ErrInvalidActor
	}
	if err := s.authorize(ctx, caller, authorization.ActionUserView); err != nil {
		return nil, err
	}
	return s.repo.ListActiveByOrg(ctx, s.db, caller.OrgID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (authdomain.User, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return authdomain.User{}, authorization.ErrInvalidActor
	}
	if err := s.authorize(ctx, caller, authorization.ActionUserView); err != nil {
		return authdomain.User{}, err
	}

	user, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return authdomain.User{}, err
	}
	if user == nil {
		return authdomain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) UpdateRole(ctx context.Context, id snowflake.ID, req domain.UpdateUserRoleRequest) (authdomain.User, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return authdomain.User{}, authorization.ErrInvalidActor
	}
	if err := s.authorize(ctx, caller, authorization.ActionUserManageRoles); err != nil {
		return authdomain.User{}, err
	}

	newRole, valid := authorization.ParseOrgRole(req.OrgRole)
	if !valid {
		return authdomain.User{}, domain.ErrInvalidRole
	}

	user, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return authdomain.User{}, err
	}
	if user == nil {
		return authdomain.User{}, domain.ErrNotFound
	}
	if user.ID == caller.UserID {
		return authdomain.User{}, domain.ErrSelfRoleChange
	}

	// Demoting the last active org_admin would leave the organization
	// unmanageable.
	if user.OrgRole == string(authorization.RoleOrgAdmin) && newRole != authorization.RoleOrgAdmin {
		admins, err := s.repo.CountActiveAdmins(ctx, s.db, caller.OrgID, user.ID)
		if err != nil {
			return authdomain.User{}, err
		}
		if admins == 0 {
			return authdomain.User{}, domain.ErrLastAdmin
		}
	}

	now := s.clock.Now()
	if err := s.repo.UpdateOrgRole(ctx, s.db, user.ID, string(newRole), now); err != nil {
		return authdomain.User{}, err
	}
	user.OrgRole = string(newRole)
	user.UpdatedAt = now

	s.log.Info("user role updated",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", caller.OrgID),
		zap.String("org_role", user.OrgRole),
	)
	return *user, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return authorization.ErrInvalidActor
	}
	if err := s.authorize(ctx, caller, authorization.ActionUserDelete); err != nil {
		return err
	}

	user, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.ID == caller.UserID {
		return domain.ErrSelfDelete
	}

	if user.OrgRole == string(authorization.RoleOrgAdmin) {
		admins, err := s.repo.CountActiveAdmins(ctx, s.db, caller.OrgID, user.ID)
		if err != nil {
			return err
		}
		if admins == 0 {
			return domain.ErrLastAdmin
		}
	}

	if err := s.repo.Deactivate(ctx, s.db, user.ID, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("user deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", caller.OrgID),
	)
	return nil
}

func (s *Service) authorize(ctx context.Context, caller orgcontext.Identity, action string) error {
	actor := fmt.Sprintf("user:%s", caller.UserID)
	return s.authz.Authorize(ctx, actor, caller.OrgID, authorization.ObjectUser, action)
}
