// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authapifeature "github.com/openscout/badgefinder/internal/app/features/authapi"
	badgeapifeature "github.com/openscout/badgefinder/internal/app/features/badgeapi"
	healthfeature "github.com/openscout/badgefinder/internal/app/features/health"
	userapifeature "github.com/openscout/badgefinder/internal/app/features/userapi"
	badgestore "github.com/openscout/badgefinder/internal/app/store/badges"
	userstore "github.com/openscout/badgefinder/internal/app/store/users"
	"github.com/openscout/badgefinder/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. BadgeFinder mounts the signup/signin
// endpoints publicly, puts the user endpoints behind authentication (session
// cookie or bearer token), and exposes the read-only badge catalog.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	tokenSvc, err := auth.NewTokenService(appCfg.JWTSecret, appCfg.JWTExpiry)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.UsersDB, deps.CatalogDB, logger)
	badges := badgestore.New(deps.CatalogDB, logger)

	r := chi.NewRouter()

	// Global auth middleware: a session cookie or a verified bearer token
	// loads the current user into context. Neither is required here; the
	// /user subtree enforces sign-in below.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(tokenSvc.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Two-phase signup, signin/signout, and the public user lookup
	authHandler := authapifeature.NewHandler(users, badges, sessionMgr, tokenSvc, logger)
	r.Mount("/auth", authapifeature.Routes(authHandler))

	// Read-only badge catalog
	badgeHandler := badgeapifeature.NewHandler(badges, logger)
	r.Mount("/", badgeapifeature.Routes(badgeHandler))

	// Signed-in user management
	userHandler := userapifeature.NewHandler(users, logger)
	r.Route("/user", func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Mount("/", userapifeature.Routes(userHandler))
	})

	return r, nil
}
