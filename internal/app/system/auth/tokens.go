package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/openscout/badgefinder/internal/app/system/respond"
)

// Claims are the JWT claims carried by access tokens. Subject is the user's
// document id in hex.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	signingKey []byte
	expiry     time.Duration
}

func NewTokenService(signingKey string, expiry time.Duration) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("jwt signing key is empty")
	}
	return &TokenService{signingKey: []byte(signingKey), expiry: expiry}, nil
}

// Issue returns a signed token for the user.
func (ts *TokenService) Issue(userID, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ts.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(ts.signingKey)
}

// Verify parses and validates a signed token.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return ts.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token has expired")
		}
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// LoadTokenUser injects the user into context when the request carries a
// valid bearer token. Requests without an Authorization header pass through
// untouched so cookie sessions still work.
func (ts *TokenService) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := ts.Verify(raw)
		if err != nil {
			respond.Message(w, http.StatusUnauthorized, err.Error())
			return
		}
		r = withUser(r, &SessionUser{ID: claims.Subject, Username: claims.Username})
		next.ServeHTTP(w, r)
	})
}
