package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := Hash("Secret123")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if hash == "Secret123" {
		t.Fatal("expected hash to differ from plaintext")
	}
	if !Verify("Secret123", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("Wrong123", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyLongPassword(t *testing.T) {
	// Policy allows up to 100 characters; bcrypt compares the first 72 bytes.
	long := strings.Repeat("Aa1", 33) // 99 chars
	hash, err := Hash(long)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if !Verify(long, hash) {
		t.Fatal("expected long password to verify")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "Secret123", nil},
		{"too short", "Ab1", ErrTooShort},
		{"too long", strings.Repeat("Aa1", 34), ErrTooLong},
		{"no uppercase", "secret123", ErrTooWeak},
		{"no lowercase", "SECRET123", ErrTooWeak},
		{"no digit", "SecretPass", ErrTooWeak},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
