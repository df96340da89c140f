// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - database.Provider: hands out sessions (internal/database/database.go).
//     Connector opens a connection per session; Pool shares one.
//
// ## Authentication Interfaces
//
//   - auth.PasswordCodec: how passwords are stored and compared
//     (internal/auth/password.go). PlainCodec keeps them verbatim,
//     BcryptCodec hashes them.
//
// # Adding a New Entity
//
// Entities are data, not code:
//
//  1. Add a descriptor to the registry in internal/schema/schema.go. Field
//     order drives forms and every SQL statement.
//
//  2. Add a gorm model in internal/entities/records.go with matching column
//     names, and append it to the table list in internal/database/schema.go.
//
// The records engine, HTTP routes and CLI commands pick the entity up from
// the registry.
//
// # Adding a New Database Driver
//
//  1. Add a driver constant in internal/config/constants.go and accept it in
//     Config.Validate.
//
//  2. Return its gorm dialector from database.Dialector.
//
//  3. Teach database.Classify the driver's unique and foreign key error codes.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
