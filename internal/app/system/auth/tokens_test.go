package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openscout/badgefinder/internal/app/system/auth"
)

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-jwt-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return ts
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("507f1f77bcf86cd799439011", "jsmith")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "507f1f77bcf86cd799439011" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Username != "jsmith" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.ID == "" {
		t.Error("expected a jti claim")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts, err := auth.NewTokenService("test-jwt-signing-key", -time.Minute)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	token, err := ts.Issue("507f1f77bcf86cd799439011", "jsmith")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ts.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenService_RejectsWrongKey(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := auth.NewTokenService("a-different-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	token, err := other.Issue("507f1f77bcf86cd799439011", "jsmith")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ts.Verify(token); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t)
	if _, err := ts.Verify("not-a-jwt"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestLoadTokenUser_ValidBearer(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue("507f1f77bcf86cd799439011", "jsmith")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got *auth.SessionUser
	handler := ts.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/user/507f1f77bcf86cd799439011", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a user in context")
	}
	if got.ID != "507f1f77bcf86cd799439011" || got.Username != "jsmith" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestLoadTokenUser_NoHeaderPassesThrough(t *testing.T) {
	ts := newTestTokenService(t)

	called := false
	handler := ts.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user in context")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/badges", nil))
	if !called {
		t.Error("expected handler to be called")
	}
}

func TestLoadTokenUser_BadBearerRejected(t *testing.T) {
	ts := newTestTokenService(t)

	handler := ts.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/user/507f1f77bcf86cd799439011", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
