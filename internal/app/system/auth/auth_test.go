package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/system/auth"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func withTestUser(r *http.Request) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       "507f1f77bcf86cd799439011",
		Username: "jsmith",
		FullName: "Jordan Smith",
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/user/507f1f77bcf86cd799439011", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/user/507f1f77bcf86cd799439011", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/signin", nil)
	err := sm.SignIn(rec, req, &auth.SessionUser{
		ID:       "507f1f77bcf86cd799439011",
		Username: "jsmith",
		FullName: "Jordan Smith",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through LoadSessionUser.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/user/507f1f77bcf86cd799439011", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected a session user after replaying cookie")
	}
	if got.ID != "507f1f77bcf86cd799439011" || got.Username != "jsmith" {
		t.Errorf("unexpected session user: %+v", got)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/signin", nil)
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "507f1f77bcf86cd799439011"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/auth/signout", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	if err := sm.SignOut(rec2, req2); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	found := false
	for _, c := range rec2.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be expired on sign out")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}
