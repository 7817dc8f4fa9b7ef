// Package clickhouse reads SQL text from a running ClickHouse server so it can
// be formatted.
//
// Two sources are supported:
//   - RecentQueries: finished SELECT queries from system.query_log
//   - Views: the SELECT behind every view and materialized view
//
// System databases are always skipped; more can be excluded through
// ClientOptions.IgnoreDatabases. Setting any file of ClientOptions.TLS
// switches the connection to TLS, with a client certificate when a cert/key
// pair is given.
//
// Example usage:
//
//	client, err := clickhouse.NewClientWithOptions(ctx, "localhost:9000", clickhouse.ClientOptions{
//		IgnoreDatabases: []string{"staging"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	views, err := client.Views(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, v := range views {
//		out, _ := format.String(v.Text)
//		fmt.Printf("-- %s\n%s\n\n", v.ID, out)
//	}
package clickhouse
