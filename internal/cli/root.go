// Package cli provides the criminaldb command line.
//
// Running the binary without a command starts the HTTP API. Every other
// command opens the configured store directly; record commands sign in with
// -u/-p first, the same way the desktop UI does.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/criminaldb/internal/config"
	"github.com/mrlokans/criminaldb/internal/logging"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "criminaldb",
		Short:   "criminaldb - police records store",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := logging.Configure(cfg.Log); err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flag names map onto configuration keys: --db-driver sets DB_DRIVER.
	flags := rootCmd.PersistentFlags()
	flags.String("host", "", "HTTP listen host")
	flags.Int32("port", 0, "HTTP listen port")
	flags.String("db-driver", "", "Database driver (sqlite, mysql, postgres)")
	flags.String("db-host", "", "Database host")
	flags.Int("db-port", 0, "Database port (0 selects the driver default)")
	flags.String("db-user", "", "Database user")
	flags.String("db-password", "", "Database password")
	flags.String("db-name", "", "Database name, or file path for sqlite")
	flags.Bool("db-pooled", false, "Share one connection pool instead of a session per operation")
	flags.String("official-account-file", "", "Official account marker file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(newInitDBCommand())
	rootCmd.AddCommand(newRegisterCommand())
	rootCmd.AddCommand(newPasswdCommand())
	rootCmd.AddCommand(newRecordsCommand())
	rootCmd.AddCommand(newCountsCommand())
	rootCmd.AddCommand(newOfficialCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd := NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config stored by the root command.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.NewConfig()
}
