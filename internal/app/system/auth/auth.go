// Package auth provides cookie-session management, JWT issuance, and the
// middleware that guards signed-in API routes.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/system/respond"
)

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	usernameKey = "username"
	fullNameKey = "full_name"
)

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID       string
	Username string
	FullName string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager wraps a cookie store configured for one named session.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. The session key
// must be non-empty; 32+ random chars are recommended. The `secure` flag
// controls whether cookies are marked Secure and which SameSite mode is used:
// in production (secure=true) cookies are Secure + SameSite=None so they work
// cross-site over HTTPS, while local dev over http://localhost uses Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SignIn writes the user into the session cookie. A stale cookie signed
// with a rotated key fails to decode; gorilla returns a fresh session
// alongside the error, so sign-in proceeds on a clean slate either way.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID))
		} else {
			sm.log.Error("session store error during sign-in, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[usernameKey] = u.Username
	sess.Values[fullNameKey] = u.FullName
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the user into context if they are signed in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:       getString(sess, userIDKey),
				Username: getString(sess, usernameKey),
				FullName: getString(sess, fullNameKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser
// or a verified bearer token). Unauthenticated callers get a 401 JSON body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		respond.Message(w, http.StatusUnauthorized, "unauthorized")
	})
}

// WithTestUser injects a SessionUser into the request context. Test hook.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
