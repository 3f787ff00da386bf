// Package authapi serves the signup, signin, and session endpoints.
package authapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	badgestore "github.com/openscout/badgefinder/internal/app/store/badges"
	userstore "github.com/openscout/badgefinder/internal/app/store/users"
	"github.com/openscout/badgefinder/internal/app/system/auth"
	"github.com/openscout/badgefinder/internal/app/system/respond"
	"github.com/openscout/badgefinder/internal/app/system/timeouts"
	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
)

// Handler holds the dependencies for the auth endpoints.
type Handler struct {
	Users    *userstore.Store
	Badges   *badgestore.Store
	Sessions *auth.SessionManager
	Tokens   *auth.TokenService
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, badges *badgestore.Store, sessions *auth.SessionManager, tokens *auth.TokenService, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Badges:   badges,
		Sessions: sessions,
		Tokens:   tokens,
		Log:      logger,
	}
}

// Signup handles POST /auth/signup: the first phase of registration, which
// records identity fields only.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	h.Log.Info("signup request received")
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	if email, ok := body["email"].(string); ok {
		_, err := h.Users.FindByEmail(ctx, email)
		if err == nil {
			respond.Message(w, http.StatusConflict, "User with this email already exists")
			return
		}
		if kind, isDomain := errs.KindOf(err); !isDomain || kind != errs.KindUserNotFound {
			respond.Error(w, err)
			return
		}
	}

	u, err := h.Users.RegisterUser(ctx, body)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.Log.Info("user created", zap.String("user_id", u.ID().Hex()))
	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "User created successfully. Proceed to the second step",
		"user":    u,
	})
}

// SignupSecondary handles POST /auth/signup-secondary: the second phase,
// which sets credentials and resolves the chosen badge id lists against the
// catalog. Responds with a signed token so the client is signed in
// immediately.
func (h *Handler) SignupSecondary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	h.Log.Info("signup-secondary request received")
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	id, _ := body["_id"].(string)
	existing, err := h.Users.FindByID(ctx, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if existing.Username() != "" {
		respond.Message(w, http.StatusConflict, "User already completed the signup process")
		return
	}

	earned, err := h.resolveEarnedBadges(ctx, stringList(body["earnedBadges"]))
	if err != nil {
		respond.Error(w, err)
		return
	}
	required, err := h.resolveRequiredBadges(ctx, stringList(body["requiredBadges"]))
	if err != nil {
		respond.Error(w, err)
		return
	}

	u, err := h.Users.RegisterSecondaryUser(ctx, map[string]any{
		"_id":             id,
		"username":        body["username"],
		"password":        body["password"],
		"earned_badges":   earned,
		"required_badges": required,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID().Hex(), u.Username())
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.Log.Info("signup-secondary completed", zap.String("user_id", u.ID().Hex()))
	respond.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// Signin handles POST /auth/signin. Both a bearer token and a session
// cookie are established so either auth style works afterwards.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	h.Log.Info("signin request received")
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)

	u, err := h.Users.AuthenticateUser(ctx, username, password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID().Hex(), u.Username())
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.Sessions.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID().Hex(),
		Username: u.Username(),
		FullName: u.FullName(),
	}); err != nil {
		h.Log.Error("session write failed", zap.Error(err))
	}

	h.Log.Info("signin completed", zap.String("user_id", u.ID().Hex()))
	respond.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// Signout handles POST /auth/signout.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
	}
	respond.Message(w, http.StatusOK, "signed out")
}

// GetUser handles GET /auth/user/{userId}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.FindByID(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// resolveEarnedBadges turns catalog badge ids into earned-badge snapshots
// with every requirement incomplete. Ids missing from the catalog are
// dropped, matching the lenient intake of the signup flow.
func (h *Handler) resolveEarnedBadges(ctx context.Context, ids []string) ([]any, error) {
	badges, err := h.Badges.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := []any{}
	for _, b := range badges {
		reqs, err := h.Badges.RequirementsForBadge(ctx, b.BadgeID)
		if err != nil {
			return nil, err
		}
		earned := models.EarnedBadge{
			BadgeID:      b.BadgeID,
			Requirements: make([]models.RequirementStatus, 0, len(reqs)),
		}
		for _, req := range reqs {
			earned.Requirements = append(earned.Requirements, models.RequirementStatus{
				RequirementID:     req.RequirementID,
				RequirementString: req.RequirementString,
				Completed:         false,
			})
		}
		out = append(out, earned)
	}
	return out, nil
}

// resolveRequiredBadges keeps the catalog documents for the badges the user
// still wants to earn.
func (h *Handler) resolveRequiredBadges(ctx context.Context, ids []string) ([]any, error) {
	badges, err := h.Badges.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := []any{}
	for _, b := range badges {
		out = append(out, b)
	}
	return out, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return body, true
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
