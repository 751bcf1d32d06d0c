package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "manager", "company-1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}

	claims := parsed.Claims.(*AccessClaims)
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != "manager" {
		t.Errorf("Role = %q, want manager", claims.Role)
	}
	if claims.CompanyID != "company-1" {
		t.Errorf("CompanyID = %q, want company-1", claims.CompanyID)
	}
}

func TestInviteTokenRoundTrip(t *testing.T) {
	token, err := GenerateInviteToken("invite-1", "company-1", "Jo Field", "jo@example.com", testSecret, 48)
	if err != nil {
		t.Fatalf("GenerateInviteToken: %v", err)
	}

	claims, err := ParseInviteToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseInviteToken: %v", err)
	}

	if claims.InviteID != "invite-1" || claims.CompanyID != "company-1" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Role != "tech" {
		t.Errorf("Role = %q, want tech (locked)", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
}

func TestParseInviteTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateInviteToken("invite-1", "company-1", "Jo", "jo@example.com", testSecret, 48)
	if err != nil {
		t.Fatalf("GenerateInviteToken: %v", err)
	}

	if _, err := ParseInviteToken(token, "other-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseInviteTokenRejectsExpired(t *testing.T) {
	token, err := GenerateInviteToken("invite-1", "company-1", "Jo", "jo@example.com", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateInviteToken: %v", err)
	}

	if _, err := ParseInviteToken(token, testSecret); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseInviteTokenRejectsAccessToken(t *testing.T) {
	// A session token must not open the invite redemption path.
	token, err := GenerateAccessToken("user-1", "tech", "company-1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseInviteToken(token, testSecret); err == nil {
		t.Error("expected error for non-invite token")
	}
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate refresh token")
		}
		seen[token] = true
	}
}
