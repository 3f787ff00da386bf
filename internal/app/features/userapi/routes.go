package userapi

import "github.com/go-chi/chi/v5"

// Routes returns the router for the signed-in user endpoints. The caller
// mounts it behind the session/token middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/badge", h.AddBadge)
	r.Delete("/{id}/badge/{badgeId}", h.RemoveBadge)
	r.Patch("/{id}/badge/{badgeId}/requirement/{requirementId}", h.UpdateRequirement)
	return r
}
