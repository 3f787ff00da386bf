package badgeapi

import "github.com/go-chi/chi/v5"

// Routes returns the catalog router. It carries full paths because the
// requirements listing lives outside the /badges subtree; mount it at the
// server root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/badges", h.All)
	r.Get("/badges/search", h.ByName)
	r.Get("/badges/category", h.ByCategory)
	r.Get("/badges/requirements", h.ByRequirement)
	r.Get("/requirements", h.Requirements)
	return r
}
