// internal/app/features/authapi/routes.go
package authapi

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the auth endpoints; mounted under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.Signup)
	r.Post("/signup-secondary", h.SignupSecondary)
	r.Post("/signin", h.Signin)
	r.Post("/signout", h.Signout)
	r.Get("/user/{userId}", h.GetUser)
	return r
}
