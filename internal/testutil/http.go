package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openscout/badgefinder/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignedInUser returns a session user with a fresh id for handler tests.
func SignedInUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "jsmith",
		FullName: "Jordan Smith",
	}
}

// WithUser adds a session user to the request context, bypassing the
// session middleware.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithTestUser(r, u)
}
