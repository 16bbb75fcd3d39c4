package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgauth "github.com/willowrootwellness/willowroot-backend/pkg/auth"
	"github.com/willowrootwellness/willowroot-backend/pkg/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "willowroot-identity",
		Audience:  "willowroot-api",
	}
}

func mintToken(t *testing.T, cfg config.AuthConfig, claims pkgauth.AccessTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func customerClaims(cfg config.AuthConfig, userID uuid.UUID) pkgauth.AccessTokenClaims {
	now := time.Now()
	return pkgauth.AccessTokenClaims{
		UserID: userID,
		Email:  "rowan@example.com",
		Role:   pkgauth.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := testAuthConfig()
	userID := uuid.New()
	signed := mintToken(t, cfg, customerClaims(cfg, userID))

	var gotUser, gotEmail, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotEmail = EmailFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	Auth(cfg, nil)(next).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user id %s in context, got %q", userID, gotUser)
	}
	if gotEmail != "rowan@example.com" {
		t.Fatalf("expected email in context, got %q", gotEmail)
	}
	if gotRole != "customer" {
		t.Fatalf("expected customer role, got %q", gotRole)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	Auth(testAuthConfig(), nil)(next).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if called {
		t.Fatal("handler must not run without credentials")
	}
}

func TestAuthRejectsForgedToken(t *testing.T) {
	cfg := testAuthConfig()
	forged := config.AuthConfig{JWTSecret: "other-secret", Issuer: cfg.Issuer, Audience: cfg.Audience}
	signed := mintToken(t, forged, customerClaims(forged, uuid.New()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	Auth(cfg, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", nil)
	req = req.WithContext(WithRole(req.Context(), "customer"))
	w := httptest.NewRecorder()

	RequireRole("admin", nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for the wrong role")
	})).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
