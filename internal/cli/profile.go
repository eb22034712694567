package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/config"
	"github.com/spf13/cobra"
)

func newProfileCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved connection profiles",
	}
	cmd.AddCommand(newProfileListCommand(r))
	cmd.AddCommand(newProfileSaveCommand(r))
	cmd.AddCommand(newProfileRemoveCommand(r))
	return cmd
}

func newProfileListCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if len(r.cfg.Profiles) == 0 {
				_, _ = fmt.Fprintln(w, "No saved profiles.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"", "NAME", "ACCOUNT", "USER", "WAREHOUSE", "DATABASE", "SCHEMA", "ROLE"})
			for _, p := range r.cfg.Profiles {
				marker := ""
				if p.Name == r.cfg.Preferences.DefaultProfile {
					marker = "*"
				}
				t.AppendRow(table.Row{marker, p.Name, p.Account, p.User, p.Warehouse, p.Database, p.Schema, p.Role})
			}
			t.Render()
			return nil
		},
	}
}

func newProfileSaveCommand(r *runner) *cobra.Command {
	var (
		noKeyring  bool
		setDefault bool
	)

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current connection settings as a profile",
		Long: `Save the settings resolved from the environment and flags under NAME.

The password is stored in the OS keyring unless --no-keyring is given, in
which case it is written to the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg := snowclient.LoadEnvironment(r.lookup()).Merge(r.flagConfig())
			if existing, ok := r.cfg.Profile(name); ok {
				resolved, err := existing.Resolve()
				if err != nil {
					return err
				}
				cfg = resolved.ClientConfig().Merge(cfg)
			}
			if cfg.Account == "" || cfg.User == "" {
				return fmt.Errorf("profile %q needs at least an account and a user", name)
			}

			p := config.ProfileFromConfig(name, cfg)
			if !noKeyring && p.Password != "" {
				if err := config.StorePassword(name, p.Password); err != nil {
					return err
				}
				p.Password = ""
			}

			r.cfg.Upsert(p)
			if setDefault {
				r.cfg.Preferences.DefaultProfile = name
			}
			if err := r.saveConfig(); err != nil {
				return err
			}
			r.logger.Debug("profile saved", "profile", name, "keyring", !noKeyring)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved: %s\n", name, p.DisplayString())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noKeyring, "no-keyring", false, "write the password to the config file instead of the OS keyring")
	cmd.Flags().BoolVar(&setDefault, "default", false, "use this profile when --profile is not given")
	return cmd
}

func newProfileRemoveCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !r.cfg.Remove(name) {
				return fmt.Errorf("profile %q not found", name)
			}
			if err := config.DeletePassword(name); err != nil {
				return err
			}
			if err := r.saveConfig(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q removed.\n", name)
			return nil
		},
	}
}
