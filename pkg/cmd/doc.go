// Package cmd provides the CLI commands for the sqlindent tool.
//
// # Available Commands
//
//   - fmt: Format SQL from stdin, a file, or every .sql file of a directory tree
//   - tokens: Print the token stream the formatter works from
//   - history: Format recent queries or view definitions read from ClickHouse
//
// # Command Structure
//
// Each command is a function returning a *cli.Command, following the
// urfave/cli/v3 pattern. Commands are provided to fx in the "commands" value
// group and the root command is run from an fx start hook, so main only wires
// modules together.
//
// # Global Options
//
//   - --config, -c: Config file (defaults to sqlindent.yaml in the working directory)
//   - --verbose, -v: Log debug output, including every formatting decision
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Usage Examples
//
//	# Format a query from stdin
//	echo "SELECT a FROM t WHERE x = 1 AND y = 2" | sqlindent fmt
//
//	# Rewrite every .sql file under db/ with 4-space indentation
//	sqlindent fmt -w --indent 4 db/
//
//	# Inspect how a query is tokenized
//	sqlindent tokens query.sql
//
//	# Format the 10 most recent queries of a server
//	sqlindent history --url localhost:9000 --limit 10
package cmd
