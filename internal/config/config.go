package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type PasswordStorage string

const (
	PasswordStoragePlain  PasswordStorage = "plain"  // Stored verbatim (default, matches the legacy desktop app)
	PasswordStorageBcrypt PasswordStorage = "bcrypt" // Hashed with bcrypt
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Official
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	// Database holds the connection settings. They are read once at startup.
	Database struct {
		Driver   string
		Host     string
		Port     int
		User     string
		Password string
		Name     string // Database name, or file path for sqlite
		SSLMode  string
		Pooled   bool   // Share one connection pool instead of opening a session per operation
		LogLevel string // gorm logger level: silent, error, warn, info
	}

	Auth struct {
		PasswordStorage PasswordStorage
		BcryptCost      int
		CSRFSecret      string // Hex or raw key; a random one is generated per process when empty
		SecureCookies   bool   // Set to true only when serving over HTTPS

		// Failed logins per client and username before the HTTP login route
		// refuses further attempts for LoginLockoutMinutes. 0 disables the limit.
		LoginMaxAttempts    int
		LoginLockoutMinutes int
	}

	Official struct {
		File string // JSON file holding the official account marker
	}

	Log struct {
		Level  string
		Format string // text or json
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 0) // 0 selects the driver's default port
	v.SetDefault("db_user", "root")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", DefaultDatabasePath)
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_pooled", false)
	v.SetDefault("db_log_level", "warn")

	// Auth defaults
	v.SetDefault("auth_password_storage", string(PasswordStoragePlain))
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_csrf_secret", "")
	v.SetDefault("auth_secure_cookies", false)
	v.SetDefault("auth_login_max_attempts", 5)
	v.SetDefault("auth_login_lockout_minutes", 15)

	v.SetDefault("official_account_file", DefaultOfficialAccountFile)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Pooled:   v.GetBool("DB_POOLED"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Auth: Auth{
			PasswordStorage: PasswordStorage(strings.ToLower(v.GetString("AUTH_PASSWORD_STORAGE"))),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),

			LoginMaxAttempts:    v.GetInt("AUTH_LOGIN_MAX_ATTEMPTS"),
			LoginLockoutMinutes: v.GetInt("AUTH_LOGIN_LOCKOUT_MINUTES"),
		},
		Official: Official{
			File: v.GetString("OFFICIAL_ACCOUNT_FILE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// NewConfig reads the configuration from the environment, falling back to defaults.
func NewConfig() *Config {
	return fromViper(newViper())
}

// Load reads the configuration like NewConfig, letting any flag that was set on
// the command line override the environment. Flag names map onto keys by
// replacing dashes with underscores (--db-driver -> DB_DRIVER).
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := newViper()
	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want sqlite, mysql or postgres)", c.Database.Driver)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	switch c.Auth.PasswordStorage {
	case PasswordStoragePlain, PasswordStorageBcrypt:
	default:
		return fmt.Errorf("unsupported password storage %q (want plain or bcrypt)", c.Auth.PasswordStorage)
	}
	return nil
}

// LoginLockout returns how long a client stays locked out after too many
// failed logins.
func (a Auth) LoginLockout() time.Duration {
	return time.Duration(a.LoginLockoutMinutes) * time.Minute
}

// ShutdownTimeout returns the graceful shutdown window for the HTTP server.
func (g Global) ShutdownTimeout() time.Duration {
	return time.Duration(g.ShutdownTimeoutInSeconds) * time.Second
}
