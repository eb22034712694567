// Package snowflake is the production database.Driver, backed by the
// vendor gosnowflake connector through database/sql.
package snowflake
