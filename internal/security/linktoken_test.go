package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCompletionTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := MintCompletionToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("MintCompletionToken() error = %v", err)
	}

	scheduleID, err := ParseCompletionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseCompletionToken() error = %v", err)
	}
	if scheduleID != 42 {
		t.Errorf("schedule id = %d, want 42", scheduleID)
	}
}

func TestCompletionTokenRejections(t *testing.T) {
	secret := "test-secret"

	valid, err := MintCompletionToken(secret, 7, time.Hour)
	if err != nil {
		t.Fatalf("MintCompletionToken() error = %v", err)
	}

	expired, err := MintCompletionToken(secret, 7, -time.Minute)
	if err != nil {
		t.Fatalf("MintCompletionToken() error = %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other-secret", token: valid},
		{name: "expired token", secret: secret, token: expired},
		{name: "garbage token", secret: secret, token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCompletionToken(tt.secret, tt.token); err != ErrInvalidLinkToken {
				t.Errorf("expected ErrInvalidLinkToken, got %v", err)
			}
		})
	}
}

func TestMintCompletionTokenRequiresSecret(t *testing.T) {
	if _, err := MintCompletionToken("", 1, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestParseCompletionTokenRequiresSecret(t *testing.T) {
	// A token HMAC-signed with the empty key must not verify when the
	// secret is unconfigured.
	claims := completionClaims{
		ScheduleID: 9,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ParseCompletionToken("", signed); err != ErrInvalidLinkToken {
		t.Errorf("expected ErrInvalidLinkToken, got %v", err)
	}
}
