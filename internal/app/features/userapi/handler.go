// Package userapi serves the signed-in user endpoints: profile reads,
// account deletion, and earned-badge management.
package userapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	userstore "github.com/openscout/badgefinder/internal/app/store/users"
	"github.com/openscout/badgefinder/internal/app/system/respond"
	"github.com/openscout/badgefinder/internal/app/system/timeouts"
)

// Handler holds the dependencies for the user endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// Get handles GET /user/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	h.Log.Info("get user request", zap.String("user_id", id))

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// Delete handles DELETE /user/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	h.Log.Info("delete user request", zap.String("user_id", id))

	if err := h.Users.DeleteByID(ctx, id); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "User deleted successfully")
}

// AddBadge handles POST /user/{id}/badge with body {"badgeId": "..."}.
func (h *Handler) AddBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var body struct {
		BadgeID string `json:"badgeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.BadgeID == "" {
		respond.Message(w, http.StatusBadRequest, "BadgeId is required")
		return
	}

	id := chi.URLParam(r, "id")
	h.Log.Info("add badge request",
		zap.String("user_id", id),
		zap.String("badge_id", body.BadgeID))

	u, err := h.Users.AddBadge(ctx, id, body.BadgeID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, u)
}

// RemoveBadge handles DELETE /user/{id}/badge/{badgeId}.
func (h *Handler) RemoveBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id := chi.URLParam(r, "id")
	badgeID := chi.URLParam(r, "badgeId")
	h.Log.Info("remove badge request",
		zap.String("user_id", id),
		zap.String("badge_id", badgeID))

	u, err := h.Users.RemoveBadge(ctx, id, badgeID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// UpdateRequirement handles
// PATCH /user/{id}/badge/{badgeId}/requirement/{requirementId} with body
// {"completed": true|false}.
func (h *Handler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	raw, present := body["completed"]
	if !present {
		respond.Message(w, http.StatusBadRequest, "Completed is required")
		return
	}
	completed, ok := raw.(bool)
	if !ok {
		respond.Message(w, http.StatusBadRequest, "completed must be a boolean")
		return
	}

	id := chi.URLParam(r, "id")
	badgeID := chi.URLParam(r, "badgeId")
	requirementID := chi.URLParam(r, "requirementId")
	h.Log.Info("update badge requirement request",
		zap.String("user_id", id),
		zap.String("badge_id", badgeID),
		zap.String("requirement_id", requirementID),
		zap.Bool("completed", completed))

	u, err := h.Users.UpdateBadgeRequirement(ctx, id, badgeID, requirementID, completed)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
