// Package warehouse talks to the Databricks SQL warehouse: per-request
// connections, a fixed parameterized query over the emails table, and
// normalization of driver values into JSON-safe ones.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/jmoiron/sqlx"
)

// Conn is a single-request connection to the SQL warehouse. There is no
// pooling: each request connects with its own credential and closes the
// connection before responding.
type Conn struct {
	db *sqlx.DB
}

// Connect opens a warehouse connection for one request.
func Connect(serverHostname, httpPath, accessToken string, timeout time.Duration) (*Conn, error) {
	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(serverHostname),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(accessToken),
		dbsql.WithPort(443),
		dbsql.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build warehouse connector: %w", err)
	}
	return &Conn{db: sqlx.NewDb(sql.OpenDB(connector), "databricks")}, nil
}

// Close releases the connection.
func (c *Conn) Close() error {
	return c.db.Close()
}

// Ping runs SELECT 1 and checks the answer actually came back as 1,
// proving the warehouse executes statements and not just that it accepts
// connections.
func (c *Conn) Ping(ctx context.Context) error {
	var one int
	if err := c.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to ping warehouse: %w", err)
	}
	if one != 1 {
		return fmt.Errorf("warehouse ping returned %d, want 1", one)
	}
	return nil
}

// Query executes a statement and returns the column names plus every row as
// raw driver values. Rows are left untyped; the caller normalizes them.
// A mid-flight failure returns no rows at all.
func (c *Conn) Query(ctx context.Context, stmt Statement) ([]string, [][]any, error) {
	rows, err := c.db.QueryxContext(ctx, stmt.Text, stmt.Params...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed while iterating rows: %w", err)
	}
	return cols, out, nil
}
