package http

import (
	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/database"
	"github.com/mrlokans/criminaldb/internal/records"
	"github.com/mrlokans/criminaldb/internal/settingsstore"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Provider database.Provider
	Engine   *records.Engine

	// Authentication
	AuthService *auth.Service
	Limiter     *auth.LoginLimiter // nil disables login throttling

	// Official account marker (optional)
	Official *settingsstore.Store

	// CSRF protection is off when CSRFSecret is empty. The server always passes one.
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
