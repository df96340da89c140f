// Package auth gates access to the records engine.
//
// Service registers users, checks credentials and changes passwords against
// the users table. A successful Login stores the username in a SessionState,
// the single process-wide identity; a new Login replaces it and Logout clears
// it. Unknown usernames and wrong passwords fail with the same
// ErrInvalidCredentials.
//
// Passwords are stored through a PasswordCodec selected by configuration:
//
//	AUTH_PASSWORD_STORAGE=plain   # Default, stored verbatim
//	AUTH_PASSWORD_STORAGE=bcrypt  # bcrypt hash, cost AUTH_BCRYPT_COST
//
// # HTTP
//
// RequireIdentity rejects requests with 401 while nobody is signed in.
// CSRFMiddleware (keyed by AUTH_CSRF_SECRET or a generated secret),
// JSONBodyMiddleware, SecurityHeadersMiddleware and LoginLimiter harden the
// local JSON API:
//
//	state := auth.NewSessionState()
//	svc := auth.NewService(provider, state, auth.NewPasswordCodec(cfg.Auth))
//	api := router.Group("/api", auth.RequireIdentity(state))
package auth
