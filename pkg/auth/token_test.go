package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "willowroot-identity",
		Audience:  "willowroot-api",
	}
}

func mintToken(t *testing.T, cfg config.AuthConfig, claims AccessTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func baseClaims(cfg config.AuthConfig, userID uuid.UUID) AccessTokenClaims {
	now := time.Now()
	return AccessTokenClaims{
		UserID: userID,
		Email:  "customer@example.com",
		Role:   RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestParseAccessToken(t *testing.T) {
	cfg := testAuthConfig()
	userID := uuid.New()
	signed := mintToken(t, cfg, baseClaims(cfg, userID))

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != RoleCustomer {
		t.Fatalf("expected role customer, got %s", claims.Role)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testAuthConfig()
	claims := baseClaims(cfg, uuid.New())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := mintToken(t, cfg, claims)

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	claims := baseClaims(cfg, uuid.New())
	claims.Issuer = "someone-else"
	signed := mintToken(t, cfg, claims)

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected token with wrong issuer to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	other := cfg
	other.JWTSecret = "other-secret"
	signed := mintToken(t, other, baseClaims(cfg, uuid.New()))

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestParseAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := testAuthConfig()
	claims := baseClaims(cfg, uuid.New())
	claims.Role = Role("superuser")
	signed := mintToken(t, cfg, claims)

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected token with unknown role to be rejected")
	}
}
