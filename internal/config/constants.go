package config

// Default paths
const (
	// DefaultDatabasePath is the default sqlite database file
	DefaultDatabasePath = "./criminal_db.sqlite"

	// DefaultOfficialAccountFile is where the official account marker is kept
	DefaultOfficialAccountFile = "official_account.json"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)
