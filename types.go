package snowclient

import "github.com/joacominatel/snowclient/internal/database"

// Aliases for the driver boundary so callers can supply their own driver.
type (
	// Driver opens sessions. See WithDriver.
	Driver = database.Driver

	// Conn is an open session.
	Conn = database.Conn

	// ConnConfig is what a Driver receives on Open.
	ConnConfig = database.ConnConfig

	// QueryResult holds the columns and rows of a query.
	QueryResult = database.QueryResult

	// Row maps column names to driver-typed values.
	Row = database.Row
)
