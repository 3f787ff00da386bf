// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request limits. AppConfig is where
// everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration. The users database holds accounts
	// and their badge progress; the catalog database holds the read-only
	// badge and requirement collections.
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	UsersDatabase    string // database with the users collection
	CatalogDatabase  string // database with the Badges/Requirements collections
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: badgefinder-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session cookie lifetime

	// JWT configuration for the token returned by signin/signup-secondary
	JWTSecret string        // HMAC signing key
	JWTExpiry time.Duration // Token lifetime (default: 1h)
}
