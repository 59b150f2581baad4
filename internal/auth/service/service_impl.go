package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/auth/password"
	"github.com/smallbiznis/petalbook/internal/auth/token"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Tokens  *token.Service
	Repo    domain.Repository
	OrgRepo orgdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	tokens  *token.Service
	repo    domain.Repository
	orgRepo orgdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("auth.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		tokens:  p.Tokens,
		repo:    p.Repo,
		orgRepo: p.OrgRepo,
	}
}

// Register creates the user together with a brand-new organization in one
// transaction. The registrant becomes that organization's first org_admin and
// its owner. A failure anywhere rolls back both rows, so an organization can
// never exist without its admin.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	businessName := strings.TrimSpace(req.BusinessName)

	if email == "" || !strings.Contains(email, "@") {
		return domain.AuthResult{}, fmt.Errorf("%w: please provide a valid email address", domain.ErrInvalidRequest)
	}
	if firstName == "" || lastName == "" {
		return domain.AuthResult{}, fmt.Errorf("%w: first name and last name are required", domain.ErrInvalidRequest)
	}
	if err := password.Validate(req.Password); err != nil {
		return domain.AuthResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if existing != nil {
		return domain.AuthResult{}, domain.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.AuthResult{}, err
	}

	orgName := businessName
	if orgName == "" {
		orgName = firstName + " " + lastName
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		Password:     hash,
		FirstName:    firstName,
		LastName:     lastName,
		BusinessName: businessName,
		Role:         domain.SystemRoleUser,
		OrgRole:      string(authorization.RoleOrgAdmin),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A concurrent registration can win the same sequential org id. The
	// unique index on org_id surfaces that as a duplicate-key failure, which
	// aborts the transaction; one full retry re-allocates and reruns it.
	for attempt := 0; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			org, err := s.provisionOrganization(ctx, tx, orgName, businessName, now)
			if err != nil {
				return err
			}

			user.OrganizationID = org.OrgID
			if err := s.repo.Insert(ctx, tx, &user); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return domain.ErrEmailTaken
				}
				return err
			}
			return s.orgRepo.SetOwner(ctx, tx, org.ID, user.ID)
		})
		if err == nil {
			break
		}
		if db.IsDuplicateKeyErr(err) && attempt == 0 {
			user.ID = s.genID.Generate()
			continue
		}
		return domain.AuthResult{}, err
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return domain.AuthResult{}, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", user.OrganizationID),
	)
	return domain.AuthResult{TokenPair: pair, User: user}, nil
}

// provisionOrganization allocates the next sequential public id and inserts
// the tenant row.
func (s *Service) provisionOrganization(ctx context.Context, tx *gorm.DB, name, businessName string, now time.Time) (*orgdomain.Organization, error) {
	orgID, err := s.orgRepo.NextOrgID(ctx, tx)
	if err != nil {
		return nil, err
	}
	org := orgdomain.Organization{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		Name:         name,
		Slug:         slug.Make(name),
		BusinessName: businessName,
		IsActive:     true,
		Settings:     datatypes.JSONMap{},
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.orgRepo.Insert(ctx, tx, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if user == nil {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.AuthResult{}, domain.ErrAccountDeactivated
	}
	if !password.Verify(req.Password, user.Password) {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	if err := s.repo.UpdateLastLogin(ctx, s.db, user.ID, now); err != nil {
		return domain.AuthResult{}, err
	}
	user.LastLoginAt = &now

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{TokenPair: pair, User: *user}, nil
}

// Refresh rotates the token pair. The presented token must verify, belong to
// an active user and match the stored token exactly; every failure collapses
// into the same error so callers learn nothing about which check failed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if user == nil || !user.IsActive || user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token. It is idempotent; logging out an
// unknown or already logged-out user succeeds.
func (s *Service) Logout(ctx context.Context, userID snowflake.ID) error {
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.repo.UpdateRefreshToken(ctx, s.db, userID, nil)
}

func (s *Service) ChangePassword(ctx context.Context, userID snowflake.ID, req domain.ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !password.Verify(req.CurrentPassword, user.Password) {
		return domain.ErrIncorrectPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.ErrSamePassword
	}
	if err := password.Validate(req.NewPassword); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, s.db, userID, hash)
}

func (s *Service) Profile(ctx context.Context, userID snowflake.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *user, nil
}

func (s *Service) UserFromAccessToken(ctx context.Context, raw string) (domain.User, error) {
	claims, err := s.tokens.ParseAccessToken(raw)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil || !user.IsActive {
		return domain.User{}, domain.ErrUnauthorized
	}
	return *user, nil
}

// issueTokens generates a fresh access/refresh pair and persists the refresh
// token on the user row, invalidating any previously issued refresh token.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.repo.UpdateRefreshToken(ctx, s.db, user.ID, &refresh); err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
