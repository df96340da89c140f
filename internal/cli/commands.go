package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/entrypoint"
)

// loginOptions holds the -u/-p credentials of commands that need a signed-in
// user.
type loginOptions struct {
	Username string
	Password string
}

func addLoginFlags(cmd *cobra.Command, opts *loginOptions) {
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username to sign in with")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Password to sign in with")
}

// openApp builds the services for a single command. The caller closes it.
func openApp(cmd *cobra.Command) (*entrypoint.App, error) {
	return entrypoint.NewApp(cmd.Context(), getConfig(cmd.Context()))
}

// signIn opens the app and logs in with opts.
func signIn(cmd *cobra.Command, opts loginOptions) (*entrypoint.App, auth.Identity, error) {
	app, err := openApp(cmd)
	if err != nil {
		return nil, auth.Identity{}, err
	}
	id, err := app.Auth.Login(cmd.Context(), opts.Username, opts.Password)
	if err != nil {
		app.Close()
		return nil, auth.Identity{}, fmt.Errorf("login failed: %w", err)
	}
	return app, id, nil
}

func runServe(cmd *cobra.Command, version string) error {
	return entrypoint.Run(getConfig(cmd.Context()), version)
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}
}

func newInitDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.InitSchema(cmd.Context()); err != nil {
				return err
			}
			users, err := app.Auth.UserCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%d users registered)\n", users)
			return nil
		},
	}
}

func newRegisterCommand() *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Auth.Register(cmd.Context(), opts.Username, opts.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", user.Username)
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	return cmd
}

func newPasswdCommand() *cobra.Command {
	var (
		opts        loginOptions
		newPassword string
	)
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, id, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Auth.ChangePassword(cmd.Context(), id.Username, newPassword); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password changed for %s\n", id.Username)
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")
	return cmd
}

func newCountsCommand() *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show the number of records per entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			renderCounts(cmd.OutOrStdout(), app.Engine.Counts(cmd.Context()))
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	return cmd
}

func newOfficialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "official",
		Short: "Show or set the official account",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the official account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			name := app.Official.OfficialAccount()
			if name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No official account set")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	})

	var opts loginOptions
	set := &cobra.Command{
		Use:   "set [username]",
		Short: "Mark an account as official (defaults to the signed-in user)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, id, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			username := id.Username
			if len(args) == 1 {
				username = strings.TrimSpace(args[0])
			}
			if err := app.Official.SetOfficialAccount(username); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Official account: %s\n", username)
			return nil
		},
	}
	addLoginFlags(set, &opts)
	cmd.AddCommand(set)

	return cmd
}
