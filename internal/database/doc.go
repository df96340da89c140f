// Package database owns connections to the relational store and the schema.
//
// # Sessions
//
// Every operation that touches the store acquires a Session from a Provider
// and releases it when done, on success and on failure alike:
//
//	err := database.WithSession(ctx, provider, func(db *gorm.DB) error {
//		return db.Exec("DELETE FROM officers WHERE id = ?", id).Error
//	})
//
// Two providers exist. Connector opens a fresh connection per Acquire and
// closes it on Release. Pool shares one connection pool and is selected with
// DB_POOLED=true. NewProvider picks between them from configuration.
//
// # Drivers
//
// sqlite (the default, file based), mysql and postgres are supported through
// their gorm dialectors. The sqlite DSN always enables foreign keys.
//
// # Errors
//
// Classify maps driver errors onto the failure kinds: unique violations become
// constraint failures matching ErrDuplicate, other integrity violations become
// constraint failures, lost connections become connectivity failures and
// everything else is a store failure. The store's message is kept verbatim.
//
// # Schema
//
// EnsureSchema creates the users, officers, criminals, cases and evidence
// tables when they are missing, plus the index on criminals.name. It never
// alters a table that already exists.
//
// Sub-packages hold repositories for single domains (users/).
package database
