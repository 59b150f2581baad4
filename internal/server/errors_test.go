package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/authorization"
	orgdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	userdomain "github.com/smallbiznis/petalbook/internal/user/domain"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	withdrawaldomain "github.com/smallbiznis/petalbook/internal/withdrawal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid credentials", authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"deactivated account", authdomain.ErrAccountDeactivated, http.StatusUnauthorized, "unauthorized"},
		{"invalid refresh token", authdomain.ErrInvalidRefreshToken, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"cross tenant", orgdomain.ErrCrossTenant, http.StatusForbidden, "forbidden"},
		{"last admin", userdomain.ErrLastAdmin, http.StatusForbidden, "forbidden"},
		{"week not found", weekdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"week conflict", weekdomain.ErrConflict, http.StatusConflict, "conflict"},
		{"email taken", authdomain.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"insufficient savings", withdrawaldomain.ErrInsufficient, http.StatusBadRequest, "bad_request"},
		{"invalid role", userdomain.ErrInvalidRole, http.StatusBadRequest, "bad_request"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, status)
			}
			if payload.Type != tc.wantType {
				t.Fatalf("expected type %q, got %q", tc.wantType, payload.Type)
			}
		})
	}
}

func TestMapErrorKeepsWrappedDetail(t *testing.T) {
	err := fmt.Errorf("%w: available: 100.00, requested: 150.00", withdrawaldomain.ErrInsufficient)
	_, payload := mapError(err)
	if payload.Message != err.Error() {
		t.Fatalf("expected wrapped detail in message, got %q", payload.Message)
	}
}

func TestMapErrorHidesInternalDetail(t *testing.T) {
	_, payload := mapError(fmt.Errorf("pq: connection refused"))
	if payload.Message != "internal server error" {
		t.Fatalf("expected generic message, got %q", payload.Message)
	}
}

func TestMapValidationErrors(t *testing.T) {
	status, payload := mapError(newValidationError("weekNumber", "out_of_range", "week number must be between 1 and 53"))
	if status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", status)
	}
	if payload.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", payload.Type)
	}
	if len(payload.Errors) != 1 || payload.Errors[0].Field != "weekNumber" {
		t.Fatalf("expected field detail, got %+v", payload.Errors)
	}
}

func TestRateLimiterFixedWindow(t *testing.T) {
	limiter := newRateLimiter(1, time.Minute)
	if !limiter.Allow("a") {
		t.Fatal("expected first hit to pass")
	}
	if limiter.Allow("a") {
		t.Fatal("expected second hit in the window to be blocked")
	}
	if !limiter.Allow("b") {
		t.Fatal("expected distinct keys to be counted separately")
	}

	limiter = newRateLimiter(1, time.Millisecond)
	if !limiter.Allow("a") {
		t.Fatal("expected first hit to pass")
	}
	time.Sleep(5 * time.Millisecond)
	if !limiter.Allow("a") {
		t.Fatal("expected expired window to reset")
	}
}
