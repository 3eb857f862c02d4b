package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	raw, err := m.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() unexpected error = %v", err)
	}

	claims, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() unexpected error = %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("Subject = %q, want user-42", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("token carries no jti, revocation would be impossible")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("token is already expired")
	}
}

func TestParse_RejectsBadTokens(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	tests := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{name: "garbage", raw: func(t *testing.T) string {
			return "not.a.token"
		}},
		{name: "wrong secret", raw: func(t *testing.T) string {
			other := NewTokenManager("other-secret", time.Hour)
			raw, err := other.Issue("user-42")
			if err != nil {
				t.Fatal(err)
			}
			return raw
		}},
		{name: "expired", raw: func(t *testing.T) string {
			short := NewTokenManager("test-secret", -time.Minute)
			raw, err := short.Issue("user-42")
			if err != nil {
				t.Fatal(err)
			}
			return raw
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Parse(tt.raw(t)); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
