package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
	"github.com/smallbiznis/petalbook/internal/week/domain"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Authz authorization.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	authz authorization.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("week.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		authz: p.Authz,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateWeekRequest) (domain.Week, error) {
	caller, err := s.authorize(ctx, authorization.ObjectSale, authorization.ActionSaleCreate)
	if err != nil {
		return domain.Week{}, err
	}
	if err := validateWeekFields(req.WeekNumber, req.Year); err != nil {
		return domain.Week{}, err
	}
	if err := validateAmounts(req.TotalFlower, req.TotalBuyingPrice, req.TotalSale, req.Revenue,
		req.Sale.Thursday, req.Sale.Friday, req.Sale.Saturday); err != nil {
		return domain.Week{}, err
	}

	existing, err := s.repo.FindByOrgWeekYear(ctx, s.db, caller.OrgID, req.WeekNumber, req.Year)
	if err != nil {
		return domain.Week{}, err
	}
	if existing != nil {
		return domain.Week{}, fmt.Errorf("%w: week %d for year %d", domain.ErrConflict, req.WeekNumber, req.Year)
	}

	savings := 0.0
	if req.Savings != nil {
		if *req.Savings < 0 {
			return domain.Week{}, fmt.Errorf("%w: savings must not be negative", domain.ErrInvalidRequest)
		}
		savings = *req.Savings
	}

	now := s.clock.Now()
	week := domain.Week{
		ID:               s.genID.Generate(),
		UserID:           caller.UserID,
		OrganizationID:   caller.OrgID,
		WeekNumber:       req.WeekNumber,
		Year:             req.Year,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TotalFlower:      req.TotalFlower,
		TotalBuyingPrice: req.TotalBuyingPrice,
		Sale: domain.SaleByDay{
			Thursday: req.Sale.Thursday,
			Friday:   req.Sale.Friday,
			Saturday: req.Sale.Saturday,
		},
		TotalSale: req.TotalSale,
		Profit:    req.Profit,
		Revenue:   req.Revenue,
		Savings:   savings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	week.RecomputeAverages()

	if err := s.repo.Insert(ctx, s.db, &week); err != nil {
		// A concurrent create for the same calendar week loses against the
		// unique index.
		if db.IsDuplicateKeyErr(err) {
			return domain.Week{}, fmt.Errorf("%w: week %d for year %d", domain.ErrConflict, req.WeekNumber, req.Year)
		}
		return domain.Week{}, err
	}
	return week, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Week, error) {
	caller, err := s.authorize(ctx, authorization.ObjectSale, authorization.ActionSaleView)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOrg(ctx, s.db, caller.OrgID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Week, error) {
	caller, err := s.authorize(ctx, authorization.ObjectSale, authorization.ActionSaleView)
	if err != nil {
		return domain.Week{}, err
	}
	week, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return domain.Week{}, err
	}
	if week == nil {
		return domain.Week{}, domain.ErrNotFound
	}
	return *week, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateWeekRequest) (domain.Week, error) {
	caller, err := s.authorize(ctx, authorization.ObjectSale, authorization.ActionSaleUpdate)
	if err != nil {
		return domain.Week{}, err
	}

	week, err := s.repo.FindInOrg(ctx, s.db, caller.OrgID, id)
	if err != nil {
		return domain.Week{}, err
	}
	if week == nil {
		return domain.Week{}, domain.ErrNotFound
	}

	if req.WeekNumber != nil {
		week.WeekNumber = *req.WeekNumber
	}
	if req.Year != nil {
		week.Year = *req.Year
	}
	if err := validateWeekFields(week.WeekNumber, week.Year); err != nil {
		return domain.Week{}, err
	}
	if req.StartDate != nil {
		week.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		week.EndDate = *req.EndDate
	}

	// A partial sale update merges only the supplied days into the existing
	// breakdown.
	if req.Sale != nil {
		if req.Sale.Thursday != nil {
			week.Sale.Thursday = *req.Sale.Thursday
		}
		if req.Sale.Friday != nil {
			week.Sale.Friday = *req.Sale.Friday
		}
		if req.Sale.Saturday != nil {
			week.Sale.Saturday = *req.Sale.Saturday
		}
	}

	recalc := req.TotalFlower != nil || req.TotalBuyingPrice != nil || req.TotalSale != nil
	if req.TotalFlower != nil {
		week.TotalFlower = *req.TotalFlower
	}
	if req.TotalBuyingPrice != nil {
		week.TotalBuyingPrice = *req.TotalBuyingPrice
	}
	if req.TotalSale != nil {
		week.TotalSale = *req.TotalSale
	}
	if req.Profit != nil {
		week.Profit = *req.Profit
	}
	if req.Revenue != nil {
		week.Revenue = *req.Revenue
	}
	if req.Savings != nil {
		week.Savings = *req.Savings
	}
	if err := validateAmounts(week.TotalFlower, week.TotalBuyingPrice, week.TotalSale, week.Revenue,
		week.Sale.Thursday, week.Sale.Friday, week.Sale.Saturday); err != nil {
		return domain.Week{}, err
	}
	if week.Savings < 0 {
		return domain.Week{}, fmt.Errorf("%w: savings must not be negative", domain.ErrInvalidRequest)
	}
	if recalc {
		week.RecomputeAverages()
	}

	if err := s.repo.Update(ctx, s.db, week); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Week{}, fmt.Errorf("%w: week %d for year %d", domain.ErrConflict, week.WeekNumber, week.Year)
		}
		return domain.Week{}, err
	}
	return *week, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	caller, err := s.authorize(ctx, authorization.ObjectSale, authorization.ActionSaleDelete)
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

// GetSummary aggregates the records the caller may see. Roles without the
// full-analytics capability are limited to their own records.
func (s *Service) GetSummary(ctx context.Context) (domain.Summary, error) {
	caller, err := s.authorize(ctx, authorization.ObjectAnalytics, authorization.ActionAnalyticsView)
	if err != nil {
		return domain.Summary{}, err
	}

	var weeks []domain.Week
	actor := fmt.Sprintf("user:%s", caller.UserID)
	if err := s.authz.Authorize(ctx, actor, caller.OrgID, authorization.ObjectAnalytics, authorization.ActionAnalyticsViewAll); err == nil {
		weeks, err = s.repo.ListByOrg(ctx, s.db, caller.OrgID)
		if err != nil {
			return domain.Summary{}, err
		}
	} else {
		weeks, err = s.repo.ListByOrgUser(ctx, s.db, caller.OrgID, caller.UserID)
		if err != nil {
			return domain.Summary{}, err
		}
	}
	return domain.Summarize(weeks), nil
}

func (s *Service) authorize(ctx context.Context, object, action string) (orgcontext.Identity, error) {
	caller, ok := orgcontext.IdentityFromContext(ctx)
	if !ok {
		return orgcontext.Identity{}, authorization.ErrInvalidActor
	}
	actor := fmt.Sprintf("user:%s", caller.UserID)
	if err := s.authz.Authorize(ctx, actor, caller.OrgID, object, action); err != nil {
		return orgcontext.Identity{}, err
	}
	return caller, nil
}

func validateWeekFields(weekNumber, year int) error {
	if weekNumber < 1 || weekNumber > 53 {
		return fmt.Errorf("%w: week number must be between 1 and 53", domain.ErrInvalidRequest)
	}
	if year < 2000 {
		return fmt.Errorf("%w: year must be 2000 or later", domain.ErrInvalidRequest)
	}
	return nil
}

func validateAmounts(values ...float64) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidRequest)
		}
	}
	return nil
}
