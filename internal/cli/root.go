// Package cli provides the snowclient command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/app"
	"github.com/joacominatel/snowclient/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "dev"

// Env carries the process dependencies the commands run against.
// Zero fields fall back to the real process environment.
type Env struct {
	ConfigPath string
	Lookup     snowclient.LookupFunc
	Driver     snowclient.Driver
}

// globalFlags are the persistent connection flags shared by every command.
type globalFlags struct {
	configPath   string
	profile      string
	account      string
	user         string
	warehouse    string
	database     string
	schema       string
	role         string
	loginTimeout time.Duration
	verbose      bool
}

type runner struct {
	env    Env
	flags  globalFlags
	logger *slog.Logger
	cfg    *config.Config
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(env Env) *cobra.Command {
	r := &runner{env: env, logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "snowclient",
		Short: "snowclient - Snowflake query client",
		Long: `snowclient runs SQL against Snowflake.

Connection settings come from a saved profile, the SNOWFLAKE_* environment
variables and command-line flags, in increasing order of precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return r.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&r.flags.configPath, "config", "", "config file (default: ~/.snowclient/config.yaml)")
	f.StringVarP(&r.flags.profile, "profile", "P", "", "saved profile to connect with")
	f.StringVar(&r.flags.account, "account", "", "Snowflake account identifier")
	f.StringVar(&r.flags.user, "user", "", "Snowflake user")
	f.StringVar(&r.flags.warehouse, "warehouse", "", "default warehouse")
	f.StringVar(&r.flags.database, "database", "", "default database")
	f.StringVar(&r.flags.schema, "schema", "", "default schema")
	f.StringVar(&r.flags.role, "role", "", "default role")
	f.DurationVar(&r.flags.loginTimeout, "login-timeout", 0, "login timeout (0 uses the driver default)")
	f.BoolVarP(&r.flags.verbose, "verbose", "v", false, "verbose logging to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("profile", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		if err := r.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(r.cfg.Profiles))
		for _, p := range r.cfg.Profiles {
			names = append(names, p.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newQueryCommand(r))
	rootCmd.AddCommand(newConsoleCommand(r))
	rootCmd.AddCommand(newProfileCommand(r))
	rootCmd.AddCommand(newCreateDatabaseCommand(r))

	return rootCmd
}

// Execute runs the root command against the real process environment.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd(Env{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (r *runner) init(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if r.flags.verbose {
		level = slog.LevelDebug
	}
	r.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return r.loadConfig()
}

func (r *runner) configPath() (string, error) {
	switch {
	case r.flags.configPath != "":
		return r.flags.configPath, nil
	case r.env.ConfigPath != "":
		return r.env.ConfigPath, nil
	default:
		return config.DefaultPath()
	}
}

func (r *runner) loadConfig() error {
	if r.cfg != nil {
		return nil
	}
	path, err := r.configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	r.cfg = cfg
	return nil
}

func (r *runner) saveConfig() error {
	path, err := r.configPath()
	if err != nil {
		return err
	}
	return config.Save(path, r.cfg)
}

func (r *runner) lookup() snowclient.LookupFunc {
	if r.env.Lookup != nil {
		return r.env.Lookup
	}
	return os.LookupEnv
}

func (r *runner) flagConfig() snowclient.Config {
	return snowclient.Config{
		Account:      r.flags.account,
		User:         r.flags.user,
		Warehouse:    r.flags.warehouse,
		Database:     r.flags.database,
		Schema:       r.flags.schema,
		Role:         r.flags.role,
		LoginTimeout: r.flags.loginTimeout,
	}
}

func (r *runner) sources() app.Sources {
	return app.Sources{
		Config:  r.cfg,
		Profile: r.flags.profile,
		Lookup:  r.lookup(),
		Flags:   r.flagConfig(),
	}
}

// clientOptions are applied to every client the commands construct.
func (r *runner) clientOptions() []snowclient.Option {
	opts := []snowclient.Option{snowclient.WithLogger(r.logger)}
	if r.env.Driver != nil {
		opts = append(opts, snowclient.WithDriver(r.env.Driver))
	}
	return opts
}

func (r *runner) newClient() (*snowclient.Client, error) {
	cfg, label, err := app.Resolve(r.sources())
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolved connection", "target", label, "config", cfg.String())
	return snowclient.NewFromConfig(cfg, r.clientOptions()...), nil
}
