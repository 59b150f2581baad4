package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	orgrepository "github.com/smallbiznis/petalbook/internal/organization/repository"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	weekrepository "github.com/smallbiznis/petalbook/internal/week/repository"
	"github.com/smallbiznis/petalbook/internal/withdrawal/domain"
	"github.com/smallbiznis/petalbook/internal/withdrawal/repository"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type allowAllAuthz struct{}

func (allowAllAuthz) Authorize(_ context.Context, actor, orgID, _, _ string) error {
	if actor == "" {
		return authorization.ErrInvalidActor
	}
	if orgID == "" {
		return authorization.ErrInvalidOrganization
	}
	return nil
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Withdrawal{}, &weekdomain.Week{}, &orgdomain.Organization{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:     repository.Provide(),
		WeekRepo: weekrepository.Provide(),
		OrgRepo:  orgrepository.Provide(),
		Authz:    allowAllAuthz{},
	})
	return svc, dbConn, node
}

func seedOrg(t *testing.T, dbConn *gorm.DB, node *snowflake.Node, orgID string) {
	t.Helper()

	now := time.Now().UTC()
	org := orgdomain.Organization{
		ID:        node.Generate(),
		OrgID:     orgID,
		Name:      "Rose Corner",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := dbConn.Create(&org).Error; err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
}

func seedWeekSavings(t *testing.T, dbConn *gorm.DB, node *snowflake.Node, orgID string, savings float64) {
	t.Helper()

	now := time.Now().UTC()
	week := weekdomain.Week{
		ID:             node.Generate(),
		UserID:         node.Generate(),
		OrganizationID: orgID,
		WeekNumber:     10,
		Year:           2025,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, 6),
		Savings:        savings,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := dbConn.Create(&week).Error; err != nil {
		t.Fatalf("failed to seed week: %v", err)
	}
}

func callerCtx(userID snowflake.ID, orgID string) context.Context {
	return orgcontext.WithIdentity(context.Background(), orgcontext.Identity{
		UserID:  userID,
		Email:   "alice@example.com",
		OrgID:   orgID,
		OrgRole: "org_admin",
	})
}

func TestCreateWithdrawal(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	seedWeekSavings(t, dbConn, node, "org_1", 500)
	ctx := callerCtx(node.Generate(), "org_1")

	withdrawal, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount:      200,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: "supplier payment",
	})
	if err != nil {
		t.Fatalf("failed to create withdrawal: %v", err)
	}
	if withdrawal.OrganizationID != "org_1" {
		t.Fatalf("expected org_1, got %q", withdrawal.OrganizationID)
	}

	summary, err := svc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.AvailableSavings != 300 {
		t.Fatalf("expected available savings 300, got %v", summary.AvailableSavings)
	}
	if summary.TotalWithdrawalCount != 1 {
		t.Fatalf("expected 1 withdrawal, got %d", summary.TotalWithdrawalCount)
	}
}

func TestCreateWithdrawalInsufficientSavings(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	seedWeekSavings(t, dbConn, node, "org_1", 100)
	ctx := callerCtx(node.Generate(), "org_1")

	_, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 150,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: 100.00") || !strings.Contains(err.Error(), "requested: 150.00") {
		t.Fatalf("expected amounts in error, got %q", err.Error())
	}

	// Nothing was inserted.
	summary, err := svc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.TotalWithdrawalCount != 0 {
		t.Fatalf("expected no withdrawals, got %d", summary.TotalWithdrawalCount)
	}
}

func TestCreateWithdrawalExactBalance(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	seedWeekSavings(t, dbConn, node, "org_1", 100)
	ctx := callerCtx(node.Generate(), "org_1")

	if _, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 100,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("expected withdrawal of the full balance to succeed, got %v", err)
	}

	_, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 1,
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient on drained balance, got %v", err)
	}
}

func TestCreateWithdrawalValidation(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	ctx := callerCtx(node.Generate(), "org_1")

	_, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 0,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for zero amount, got %v", err)
	}

	_, err = svc.Create(ctx, domain.CreateWithdrawalRequest{Amount: 10})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing date, got %v", err)
	}
}

func TestDeleteWithdrawalRestoresBalance(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	seedWeekSavings(t, dbConn, node, "org_1", 100)
	ctx := callerCtx(node.Generate(), "org_1")

	withdrawal, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 100,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create withdrawal: %v", err)
	}
	if err := svc.Delete(ctx, withdrawal.ID); err != nil {
		t.Fatalf("failed to delete withdrawal: %v", err)
	}
	if err := svc.Delete(ctx, withdrawal.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}

	summary, err := svc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.AvailableSavings != 100 {
		t.Fatalf("expected balance restored to 100, got %v", summary.AvailableSavings)
	}
}

func TestWithdrawalScopedToOrganization(t *testing.T) {
	svc, dbConn, node := newTestService(t)
	seedOrg(t, dbConn, node, "org_1")
	seedOrg(t, dbConn, node, "org_2")
	seedWeekSavings(t, dbConn, node, "org_1", 500)
	seedWeekSavings(t, dbConn, node, "org_2", 50)

	withdrawal, err := svc.Create(callerCtx(node.Generate(), "org_1"), domain.CreateWithdrawalRequest{
		Amount: 200,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create withdrawal: %v", err)
	}

	other := callerCtx(node.Generate(), "org_2")
	if _, err := svc.Get(other, withdrawal.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other org, got %v", err)
	}
	if err := svc.Delete(other, withdrawal.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other org delete, got %v", err)
	}

	summary, err := svc.GetSummary(other)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.TotalSavings != 50 || summary.TotalWithdrawals != 0 {
		t.Fatalf("expected other org untouched, got %+v", summary)
	}
}

func TestCreateWithdrawalUnknownOrganization(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := callerCtx(node.Generate(), "org_9")

	_, err := svc.Create(ctx, domain.CreateWithdrawalRequest{
		Amount: 10,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown organization, got %v", err)
	}
}

func TestSummarizeFloorsAvailableAtZero(t *testing.T) {
	summary := domain.Summarize(100, []domain.Withdrawal{{Amount: 80}, {Amount: 50}})

	if summary.TotalWithdrawals != 130 {
		t.Fatalf("expected total withdrawals 130, got %v", summary.TotalWithdrawals)
	}
	if summary.AvailableSavings != 0 {
		t.Fatalf("expected available savings floored at zero, got %v", summary.AvailableSavings)
	}
}
