package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.Issue("user-123", models.RoleProctor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.Role != models.RoleProctor {
		t.Errorf("Role = %q, want proctor", claims.Role)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.Issue("user-123", models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a byte in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.Verify(tampered); err != ErrInvalidToken {
		t.Errorf("tampered token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	svc.ttl = -time.Minute

	token, err := svc.Issue("user-123", models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	for _, token := range []string{"", "garbage", "a.b", strings.Repeat("x", 100)} {
		if _, err := svc.Verify(token); err != ErrInvalidToken {
			t.Errorf("Verify(%q): err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyRejectsTokenFromOtherSecret(t *testing.T) {
	issuer := newTestTokenService(t, time.Hour)
	verifier, err := NewTokenService("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := issuer.Issue("user-123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("foreign token: err = %v, want ErrInvalidToken", err)
	}
}
