package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	"github.com/smallbiznis/petalbook/internal/withdrawal/domain"
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
	WeekRepo weekdomain.Repository
	OrgRepo  orgdomain.Repository
	Authz    authorization.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	weekRepo weekdomain.Repository
	orgRepo  orgdomain.Repository
	authz    authorization.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("withdrawal.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		weekRepo: p.WeekRepo,
		orgRepo:  p.OrgRepo,
		authz:    p.Authz,
	}
}

// Create checks savings sufficiency and inserts inside one transaction. The
// organization row is locked first, serializing concurrent withdrawals for
// the same tenant so the check-then-insert cannot race.
func (s *Service) Create(ctx context.Context, req domain.CreateWithdrawalRequest) (domain.Withdrawal, error) {
	caller, err := s.authorize(ctx, authorization.ActionWithdrawalCreate)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if req.Amount <= 0 {
		return domain.Withdrawal{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidRequest)
	}
	if req.Date.IsZero() {
		return domain.Withdrawal{}, fmt.Errorf("%w: date is required", domain.ErrInvalidRequest)
	}

	now := s.clock.Now()
	withdrawal := domain.Withdrawal{
		ID:             s.genID.Generate(),
		UserID:         caller.UserID,
		OrganizationID: caller.OrgID,
		Amount:         req.Amount,
		Date:           req.Date,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := s.orgRepo.LockByOrgID(ctx, tx, caller.OrgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}

		summary, err := s.summarize(ctx, tx, caller.OrgID)
		if err != nil {
			return err
		}
		if req.Amount > summary.AvailableSavings {
			return fmt.Errorf("%w: available: %.2f, requested: %.2f",
				domain.ErrInsufficient, summary.AvailableSavings, req.Amount)
		}
		return s.repo.Insert(ctx, tx, &withdrawal)
	})
	if err != nil {
		return domain.Withdrawal{}, err
	}

	s.log.Info("withdrawal created",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("org_id", caller.OrgID),
		zap.Float64("amount", withdrawal.Amount),
	)
	return withdrawal, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Withdrawal, error) {
	caller, err := s.authorize(ctx, authorization.ActionWithdrawalView)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOrg(ctx, s.db, caller.OrgID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Withdrawal, error) {
	caller, err := s.authorize(ctx, authorization.ActionWithdrawalView)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	withdrawal, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if withdrawal == nil {
		return domain.Withdrawal{}, domain.ErrNotFound
	}
	return *withdrawal, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	caller, err := s.authorize(ctx, authorization.ActionWithdrawalDelete)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) GetSummary(ctx context.Context) (domain.Summary, error) {
	caller, err := s.authorize(ctx, authorization.ActionWithdrawalView)
	if err != nil {
		return domain.Summary{}, err
	}
	return s.summarize(ctx, s.db, caller.OrgID)
}

func (s *Service) summarize(ctx context.Context, db *gorm.DB, orgID string) (domain.Summary, error) {
	totalSavings, err := s.weekRepo.SumSavingsByOrg(ctx, db, orgID)
	if err != nil {
		return domain.Summary{}, err
	}
	withdrawals, err := s.repo.ListByOrg(ctx, db, orgID)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(totalSavings, withdrawals), nil
}

func (s *Service) authorize(ctx context.Context, action string) (orgcontext.Identity, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return orgcontext.Identity{}, authorization.ErrInvalidActor
	}
	actor := fmt.Sprintf("user:%s", caller.UserID)
	if err := s.authz.Authorize(ctx, actor, caller.OrgID, authorization.ObjectWithdrawal, action); err != nil {
		return orgcontext.Identity{}, err
	}
	return caller, nil
}
