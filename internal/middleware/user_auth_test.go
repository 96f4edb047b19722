package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func runMiddleware(handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/cart", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	handler(c)
	return rec, c
}

func TestUserAuthValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": "user-1",
		"email":  "jane@example.com",
		"role":   "user",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	rec, c := runMiddleware(UserAuth(testSecret), "Bearer "+token)
	if rec.Code == http.StatusUnauthorized {
		t.Fatal("valid token was rejected")
	}
	if got := c.GetString("userId"); got != "user-1" {
		t.Fatalf("userId = %q, want user-1", got)
	}
	if got := c.GetString("email"); got != "jane@example.com" {
		t.Fatalf("email = %q, want jane@example.com", got)
	}
	if got := c.GetString("role"); got != "user" {
		t.Fatalf("role = %q, want user", got)
	}
}

func TestUserAuthMissingToken(t *testing.T) {
	rec, _ := runMiddleware(UserAuth(testSecret), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestUserAuthBadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "user-1"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	rec, _ := runMiddleware(UserAuth(testSecret), "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d", rec.Code)
	}
}

func TestUserAuthSubClaimFallback(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":   "admin-1",
		"role":  "admin",
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, c := runMiddleware(UserAuth(testSecret), "Bearer "+token)
	if rec.Code == http.StatusUnauthorized {
		t.Fatal("admin-style token with sub claim was rejected")
	}
	if got := c.GetString("userId"); got != "admin-1" {
		t.Fatalf("userId = %q, want admin-1", got)
	}
}

func TestOptionalUserAuthGuestFallback(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong scheme", "Basic abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := runMiddleware(OptionalUserAuth(testSecret), tt.header)
			if rec.Code == http.StatusUnauthorized {
				t.Fatal("optional auth must never reject the request")
			}
			if got := c.GetString("userId"); got != models.GuestUserID {
				t.Fatalf("userId = %q, want %q", got, models.GuestUserID)
			}
		})
	}
}

func TestOptionalUserAuthValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": "user-7",
		"email":  "kid@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	_, c := runMiddleware(OptionalUserAuth(testSecret), "Bearer "+token)
	if got := c.GetString("userId"); got != "user-7" {
		t.Fatalf("userId = %q, want user-7", got)
	}
}

func TestOptionalUserAuthExpiredTokenDegradesToGuest(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": "user-7",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	rec, c := runMiddleware(OptionalUserAuth(testSecret), "Bearer "+token)
	if rec.Code == http.StatusUnauthorized {
		t.Fatal("optional auth must never reject the request")
	}
	if got := c.GetString("userId"); got != models.GuestUserID {
		t.Fatalf("expired token should fall back to guest, got userId %q", got)
	}
}

func TestAdminAuthRejectsUserRole(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := runMiddleware(AdminAuth(testSecret), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin role, got %d", rec.Code)
	}
}

func TestAdminAuthAllowsAdminRole(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "admin-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := runMiddleware(AdminAuth(testSecret), "Bearer "+token)
	if rec.Code == http.StatusForbidden || rec.Code == http.StatusUnauthorized {
		t.Fatalf("admin token was rejected with %d", rec.Code)
	}
}
