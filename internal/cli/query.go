package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joacominatel/snowclient"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
	Params []string
	Use    snowclient.SessionContext
}

func newQueryCommand(r *runner) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SQL statement",
		Long: `Run one SQL statement against Snowflake and print the rows.

Named parameters are written %(name)s in the SQL text and supplied with
-p name=value. Values that look like integers, decimals or booleans are
sent typed; add :string, :int, :float or :bool to the name to force a type.`,
		Example: `  # Execute SQL directly
  snowclient query "SELECT CURRENT_VERSION()"

  # Bind parameters
  snowclient query "SELECT * FROM users WHERE age > %(min_age)s" -p min_age=25

  # Switch context first
  snowclient query "SELECT COUNT(*) FROM orders" --use-database SALES --use-schema PUBLIC

  # Read from a file and output CSV
  snowclient query -i report.sql -f csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, r, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv (default from config)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Query parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.Use.Role, "use-role", "", "USE ROLE before the query")
	cmd.Flags().StringVar(&opts.Use.Warehouse, "use-warehouse", "", "USE WAREHOUSE before the query")
	cmd.Flags().StringVar(&opts.Use.Database, "use-database", "", "USE DATABASE before the query")
	cmd.Flags().StringVar(&opts.Use.Schema, "use-schema", "", "USE SCHEMA before the query")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, r *runner, args []string, opts *QueryOptions) error {
	sqlQuery, err := readSQL(cmd.InOrStdin(), args, opts.Input)
	if err != nil {
		return err
	}

	params, err := parseParams(opts.Params)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = r.cfg.Preferences.Format
	}

	var init *snowclient.SessionContext
	if !opts.Use.IsZero() {
		init = &opts.Use
	}

	client, err := r.newClient()
	if err != nil {
		return err
	}

	return client.WithConnection(cmd.Context(), func(ctx context.Context, c *snowclient.Client) error {
		result, err := c.ExecuteQuery(ctx, sqlQuery, params, init)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result, format)
	})
}

// readSQL takes the statement from args, then --input, then stdin.
func readSQL(stdin io.Reader, args []string, input string) (string, error) {
	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		sqlQuery = string(content)
	default:
		if f, ok := stdin.(*os.File); ok && isTerminal(f) {
			return "", fmt.Errorf("no SQL given: pass it as an argument, with --input or on stdin")
		}
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		sqlQuery = string(content)
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", fmt.Errorf("no SQL given: pass it as an argument, with --input or on stdin")
	}
	return sqlQuery, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
