// Package badgeapi serves the read-only badge catalog endpoints.
package badgeapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	badgestore "github.com/openscout/badgefinder/internal/app/store/badges"
	"github.com/openscout/badgefinder/internal/app/system/respond"
	"github.com/openscout/badgefinder/internal/app/system/timeouts"
)

type Handler struct {
	Badges *badgestore.Store
	Log    *zap.Logger
}

func NewHandler(badges *badgestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Badges: badges, Log: logger}
}

// All handles GET /badges.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	badges, err := h.Badges.All(ctx)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, badges)
}

// ByName handles GET /badges/search?badge=<name>. The match is a
// case-insensitive substring search over badge names.
func (h *Handler) ByName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	name := r.URL.Query().Get("badge")
	if name == "" {
		respond.Message(w, http.StatusBadRequest, "badge query parameter is required")
		return
	}

	badge, err := h.Badges.ByName(ctx, name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, badge)
}

// ByCategory handles GET /badges/category?categories=<category>.
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	category := r.URL.Query().Get("categories")
	if category == "" {
		respond.Message(w, http.StatusBadRequest, "categories query parameter is required")
		return
	}

	badges, err := h.Badges.ByCategory(ctx, category)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, badges)
}

// ByRequirement handles GET /badges/requirements?query=<text>. It returns
// the badges whose requirement text matches; no match is an empty list, not
// an error.
func (h *Handler) ByRequirement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	query := r.URL.Query().Get("query")
	if query == "" {
		respond.Message(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	badges, err := h.Badges.ByRequirement(ctx, query)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, badges)
}

// Requirements handles GET /requirements?badge_id=<id>.
func (h *Handler) Requirements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	badgeID := r.URL.Query().Get("badge_id")
	if badgeID == "" {
		respond.Message(w, http.StatusBadRequest, "badge_id query parameter is required")
		return
	}

	reqs, err := h.Badges.RequirementsForBadge(ctx, badgeID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, reqs)
}
