package clickhouse

import (
	"context"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
)

// systemDatabases are never read from
var systemDatabases = []string{"system", "information_schema", "INFORMATION_SCHEMA"}

type (
	// Client represents a ClickHouse database connection
	Client struct {
		conn    driver.Conn
		options ClientOptions
	}

	// ClientOptions tunes which queries the client returns
	ClientOptions struct {
		// IgnoreDatabases lists databases whose queries and views are skipped
		IgnoreDatabases []string

		// TLS enables encrypted connections when any of its files is set
		TLS TLSSettings
	}

	// Query is a piece of SQL text read from the server
	Query struct {
		// ID identifies the query: the query_id for logged queries, the
		// qualified name for views
		ID       string
		Database string
		User     string
		Time     time.Time
		Text     string
	}
)

// NewClient creates a new ClickHouse client connection.
// The DSN can be "host:port" (e.g., "localhost:9000") or a clickhouse:// or
// tcp:// URL.
//
// Example:
//
//	client, err := clickhouse.NewClient(ctx, "localhost:9000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	queries, err := client.RecentQueries(ctx, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, q := range queries {
//	    fmt.Println(q.ID, q.Text)
//	}
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	return NewClientWithOptions(ctx, dsn, ClientOptions{})
}

// NewClientWithOptions creates a new ClickHouse client connection with the
// given options.
func NewClientWithOptions(ctx context.Context, dsn string, opts ClientOptions) (*Client, error) {
	options, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	if opts.TLS.Enabled() {
		if options.TLS, err = tlsConfig(opts.TLS); err != nil {
			return nil, err
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	return &Client{conn: conn, options: opts}, nil
}

func parseDSN(dsn string) (*clickhouse.Options, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("a ClickHouse DSN is required")
	}

	if !strings.Contains(dsn, "://") {
		return &clickhouse.Options{Addr: []string{dsn}}, nil
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse DSN: %s", dsn)
	}

	return options, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// ignored returns the databases excluded from every lookup.
func (c *Client) ignored() []string {
	out := make([]string, 0, len(systemDatabases)+len(c.options.IgnoreDatabases))
	out = append(out, systemDatabases...)
	return append(out, c.options.IgnoreDatabases...)
}

// RecentQueries returns the most recent successfully finished SELECT queries
// from system.query_log, newest first. Only initial queries are returned, so
// the parts of distributed queries sent to other shards are skipped.
//
// ClickHouse flushes the query log periodically; queries issued in the last
// few seconds may not be visible yet.
func (c *Client) RecentQueries(ctx context.Context, limit int) ([]Query, error) {
	if limit < 1 {
		return nil, errors.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT
			query_id,
			current_database,
			user,
			event_time,
			query
		FROM system.query_log
		WHERE type = 'QueryFinish'
		  AND query_kind = 'Select'
		  AND is_initial_query
		  AND NOT has(?, current_database)
		ORDER BY event_time DESC
		LIMIT ?
	`

	rows, err := c.conn.Query(ctx, query, c.ignored(), uint64(limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query system.query_log")
	}
	defer func() { _ = rows.Close() }()

	var queries []Query
	for rows.Next() {
		var q Query
		if err := rows.Scan(&q.ID, &q.Database, &q.User, &q.Time, &q.Text); err != nil {
			return nil, errors.Wrap(err, "failed to scan query_log row")
		}
		queries = append(queries, q)
	}

	return queries, errors.Wrap(rows.Err(), "failed to read query_log rows")
}

// Views returns the SELECT statement behind every regular and materialized
// view, ordered by database and name.
func (c *Client) Views(ctx context.Context) ([]Query, error) {
	query := `
		SELECT
			database,
			name,
			as_select
		FROM system.tables
		WHERE engine IN ('View', 'MaterializedView')
		  AND NOT has(?, database)
		ORDER BY database, name
	`

	rows, err := c.conn.Query(ctx, query, c.ignored())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query views")
	}
	defer func() { _ = rows.Close() }()

	var views []Query
	for rows.Next() {
		var (
			q    Query
			name string
		)
		if err := rows.Scan(&q.Database, &name, &q.Text); err != nil {
			return nil, errors.Wrap(err, "failed to scan view row")
		}

		q.ID = q.Database + "." + name
		views = append(views, q)
	}

	return views, errors.Wrap(rows.Err(), "failed to read view rows")
}
