package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(userID string, role string, companyID string, secret string, minutes int) (string, error) {
	expiration := time.Now().Add(time.Duration(minutes) * time.Minute)
	claims := AccessClaims{
		Role:      role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

const inviteIssuer = "jobticket-invite-system"

// InviteClaims is the payload of a tech invite token. The role is locked
// to "tech" at signing time so a tampered link cannot escalate.
type InviteClaims struct {
	InviteID  string `json:"invite_id"`
	CompanyID string `json:"company_id"`
	TechName  string `json:"tech_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func GenerateInviteToken(inviteID, companyID, techName, email, secret string, hours int) (string, error) {
	jti, err := GenerateRefreshToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := InviteClaims{
		InviteID:  inviteID,
		CompanyID: companyID,
		TechName:  techName,
		Email:     email,
		Role:      "tech",
		TokenType: "tech_invite",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    inviteIssuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseInviteToken validates signature, expiry, issuer, and token type.
func ParseInviteToken(tokenString string, secret string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithIssuer(inviteIssuer))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid invite token")
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || claims.TokenType != "tech_invite" {
		return nil, errors.New("invalid invite token")
	}
	return claims, nil
}
