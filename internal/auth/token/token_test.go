package token

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/config"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		Config: config.Config{
			JWTAccessSecret:  "test-access-secret",
			JWTRefreshSecret: "test-refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    7 * 24 * time.Hour,
		},
		Clock: fake,
	})
	return svc, fake
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	userID := snowflake.ID(12345)

	raw, err := svc.GenerateAccessToken(userID, "alice@example.com", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := svc.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
	parsed, err := claims.UserID()
	if err != nil {
		t.Fatalf("failed to parse subject: %v", err)
	}
	if parsed != userID {
		t.Fatalf("expected user id %d, got %d", userID, parsed)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc, _ := newTestService(t)

	refresh, err := svc.GenerateRefreshToken(snowflake.ID(1), "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := svc.ParseAccessToken(refresh); err == nil {
		t.Fatal("expected refresh token to be rejected as access token")
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc, _ := newTestService(t)

	access, err := svc.GenerateAccessToken(snowflake.ID(1), "alice@example.com", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := svc.ParseRefreshToken(access); err == nil {
		t.Fatal("expected access token to be rejected as refresh token")
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	svc, fake := newTestService(t)

	raw, err := svc.GenerateAccessToken(snowflake.ID(1), "alice@example.com", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	fake.Advance(14 * time.Minute)
	if _, err := svc.ParseAccessToken(raw); err != nil {
		t.Fatalf("expected token to still verify, got %v", err)
	}

	fake.Advance(2 * time.Minute)
	if _, err := svc.ParseAccessToken(raw); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestDistinctSecrets(t *testing.T) {
	svc, _ := newTestService(t)
	other := New(Params{
		Config: config.Config{
			JWTAccessSecret:  "other-access-secret",
			JWTRefreshSecret: "other-refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    7 * 24 * time.Hour,
		},
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	raw, err := svc.GenerateAccessToken(snowflake.ID(1), "alice@example.com", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := other.ParseAccessToken(raw); err == nil {
		t.Fatal("expected token signed with a different secret to fail")
	}
}
