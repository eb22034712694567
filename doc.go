// Package snowclient is a small facade over the Snowflake Go driver.
//
// A Client holds credentials and optional session defaults, opens a single
// session on Connect, runs SQL with optional named parameters and session
// context, and releases the session on Disconnect:
//
//	client, err := snowclient.FromEnv()
//	if err != nil {
//		return err
//	}
//	return client.WithConnection(ctx, func(ctx context.Context, c *snowclient.Client) error {
//		result, err := c.ExecuteQuery(ctx,
//			"SELECT * FROM customers WHERE age > %(min_age)s",
//			map[string]any{"min_age": 25},
//			&snowclient.SessionContext{Database: "SALES", Schema: "PUBLIC"},
//		)
//		if err != nil {
//			return err
//		}
//		fmt.Println(result.RowCount)
//		return nil
//	})
//
// Errors raised by the driver are returned unchanged. The facade adds only
// ErrNotConnected, ErrAlreadyConnected and *ConfigError. A Client is not
// safe for concurrent use.
package snowclient
