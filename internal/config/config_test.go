package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Name)
	assert.False(t, cfg.Database.Pooled)
	assert.Equal(t, PasswordStoragePlain, cfg.Auth.PasswordStorage)
	assert.Equal(t, DefaultOfficialAccountFile, cfg.Official.File)
	assert.Equal(t, 2*time.Second, cfg.Global.ShutdownTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "criminal_db")
	t.Setenv("AUTH_PASSWORD_STORAGE", "bcrypt")

	cfg := NewConfig()

	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "criminal_db", cfg.Database.Name)
	assert.Equal(t, PasswordStorageBcrypt, cfg.Auth.PasswordStorage)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DB_NAME", "from-env.sqlite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db-name", "", "")
	flags.Int32("port", 0, "")
	require.NoError(t, flags.Parse([]string{"--db-name", "from-flag.sqlite"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.sqlite", cfg.Database.Name)
	// Unset flags do not shadow defaults
	assert.Equal(t, int32(8190), cfg.HTTP.Port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "postgres", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "empty name", mutate: func(c *Config) { c.Database.Name = "" }, wantErr: true},
		{name: "unknown storage", mutate: func(c *Config) { c.Auth.PasswordStorage = "md5" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
