package cli

import (
	"context"
	"fmt"

	"github.com/joacominatel/snowclient"
	"github.com/spf13/cobra"
)

func newCreateDatabaseCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "create-database NAME",
		Short: "Create a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := r.newClient()
			if err != nil {
				return err
			}
			err = client.WithConnection(cmd.Context(), func(ctx context.Context, c *snowclient.Client) error {
				return c.CreateDatabase(ctx, args[0])
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Database %s created.\n", snowclient.Identifier(args[0]))
			return nil
		},
	}
}
