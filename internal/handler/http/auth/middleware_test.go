package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-for-auth-middleware"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthnRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	h := Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/send", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestAuthnRejectsWrongSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(RoleAdmin))
	signed, err := token.SignedString([]byte("a-different-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	h := Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/notifications/send", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestAuthnRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	signed := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": RoleAdmin,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	h := Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/notifications/send", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestAuthnStoresPrincipal(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var got Principal
	h := Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/push/subscribe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(RoleUser)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if got.UserID != "user-1" || got.Role != RoleUser {
		t.Fatalf("principal = %+v", got)
	}
}

func TestRequireRoleGate(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", RoleAdmin, http.StatusOK},
		{"manager allowed", RoleManager, http.StatusOK},
		{"user forbidden", RoleUser, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}), SenderRoles...)

			req := httptest.NewRequest(http.MethodPost, "/notifications/send", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(tc.role)))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("code = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAuthnRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	h := Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/notifications/send", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("superuser")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}
