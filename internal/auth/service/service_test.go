package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/auth/repository"
	"github.com/smallbiznis/petalbook/internal/auth/token"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/config"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	orgrepository "github.com/smallbiznis/petalbook/internal/organization/repository"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.User{}, &orgdomain.Organization{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tokens := token.New(token.Params{
		Config: config.Config{
			JWTAccessSecret:  "test-access-secret",
			JWTRefreshSecret: "test-refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    7 * 24 * time.Hour,
		},
		Clock: fake,
	})

	svc := New(Params{
		DB:      dbConn,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Tokens:  tokens,
		Repo:    repository.Provide(),
		OrgRepo: orgrepository.Provide(),
	})
	return svc, dbConn, fake
}

func register(t *testing.T, svc domain.Service, email string) domain.AuthResult {
	t.Helper()

	result, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:        email,
		Password:     "Secret123",
		FirstName:    "Alice",
		LastName:     "Smith",
		BusinessName: "Rose Corner",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	return result
}

func TestRegisterProvisionsOrganization(t *testing.T) {
	svc, dbConn, _ := newTestService(t)

	result := register(t, svc, "alice@example.com")

	if result.User.OrganizationID != "org_1" {
		t.Fatalf("expected org_1, got %q", result.User.OrganizationID)
	}
	if result.User.OrgRole != "org_admin" {
		t.Fatalf("expected org_admin, got %q", result.User.OrgRole)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected token pair")
	}

	var org orgdomain.Organization
	if err := dbConn.Where("org_id = ?", "org_1").First(&org).Error; err != nil {
		t.Fatalf("failed to load organization: %v", err)
	}
	if org.Name != "Rose Corner" {
		t.Fatalf("expected organization named after business, got %q", org.Name)
	}
	if org.OwnerID == nil || *org.OwnerID != result.User.ID {
		t.Fatal("expected registrant to own the organization")
	}

	second := register(t, svc, "bob@example.com")
	if second.User.OrganizationID != "org_2" {
		t.Fatalf("expected org_2 for second registration, got %q", second.User.OrganizationID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "Alice@Example.com",
		Password:  "Secret123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "weak",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestLoginWrongPasswordAndUnknownEmailShareError(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "alice@example.com")

	_, wrongPassword := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "Wrong123",
	})
	_, unknownEmail := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Secret123",
	})

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatal("expected identical error messages for both failures")
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, dbConn, _ := newTestService(t)

	result := register(t, svc, "alice@example.com")
	if err := dbConn.Model(&domain.User{}).Where("id = ?", result.User.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	svc, _, fake := newTestService(t)

	register(t, svc, "alice@example.com")
	fake.Advance(time.Hour)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.User.LastLoginAt == nil || !result.User.LastLoginAt.Equal(fake.Now()) {
		t.Fatalf("expected last login at %v, got %v", fake.Now(), result.User.LastLoginAt)
	}
}

func TestRefreshRotatesAndInvalidatesOldToken(t *testing.T) {
	svc, _, fake := newTestService(t)

	result := register(t, svc, "alice@example.com")
	old := result.RefreshToken

	// Rotation mints a distinct token; the clock must move so the new JWT
	// differs from the old one.
	fake.Advance(time.Second)
	pair, err := svc.Refresh(context.Background(), old)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if pair.RefreshToken == old {
		t.Fatal("expected refresh token to rotate")
	}

	// The replaced token is dead.
	_, err = svc.Refresh(context.Background(), old)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for replayed token, got %v", err)
	}

	// The new one still works.
	fake.Advance(time.Second)
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("expected rotated token to refresh, got %v", err)
	}
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := register(t, svc, "alice@example.com")

	if err := svc.Logout(context.Background(), result.User.ID); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	_, err := svc.Refresh(context.Background(), result.RefreshToken)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken after logout, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := register(t, svc, "alice@example.com")

	if err := svc.Logout(context.Background(), result.User.ID); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	if err := svc.Logout(context.Background(), result.User.ID); err != nil {
		t.Fatalf("expected repeated logout to succeed, got %v", err)
	}
	if err := svc.Logout(context.Background(), snowflake.ID(99999)); err != nil {
		t.Fatalf("expected logout of unknown user to succeed, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result := register(t, svc, "alice@example.com")
	userID := result.User.ID

	err := svc.ChangePassword(ctx, userID, domain.ChangePasswordRequest{
		CurrentPassword: "Wrong123",
		NewPassword:     "Fresh456",
	})
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}

	err = svc.ChangePassword(ctx, userID, domain.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "Secret123",
	})
	if !errors.Is(err, domain.ErrSamePassword) {
		t.Fatalf("expected ErrSamePassword, got %v", err)
	}

	err = svc.ChangePassword(ctx, userID, domain.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "weak",
	})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	if err := svc.ChangePassword(ctx, userID, domain.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "Fresh456",
	}); err != nil {
		t.Fatalf("failed to change password: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "Secret123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "Fresh456"}); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestUserFromAccessToken(t *testing.T) {
	svc, dbConn, _ := newTestService(t)
	ctx := context.Background()

	result := register(t, svc, "alice@example.com")

	user, err := svc.UserFromAccessToken(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("failed to resolve user: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("expected user %d, got %d", result.User.ID, user.ID)
	}

	if _, err := svc.UserFromAccessToken(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage token, got %v", err)
	}
	if _, err := svc.UserFromAccessToken(ctx, result.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for refresh token, got %v", err)
	}

	if err := dbConn.Model(&domain.User{}).Where("id = ?", result.User.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}
	if _, err := svc.UserFromAccessToken(ctx, result.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deactivated user, got %v", err)
	}
}
