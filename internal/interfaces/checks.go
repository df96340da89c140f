package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"encoding/json"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/database"
	"github.com/mrlokans/criminaldb/internal/records"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Provider implementations
var _ database.Provider = (*database.Connector)(nil)
var _ database.Provider = (*database.Pool)(nil)

// Records render through their own JSON form
var _ json.Marshaler = records.Record{}

// =============================================================================
// Authentication
// =============================================================================

// PasswordCodec implementations
var _ auth.PasswordCodec = auth.PlainCodec{}
var _ auth.PasswordCodec = auth.BcryptCodec{}
