// Package format lays out SQL queries with indentation driven by clause
// structure and subquery nesting.
//
// The formatter works on the token stream produced by package token; it never
// parses the query. Section keywords (SELECT, FROM, WHERE, GROUP BY, ORDER BY,
// LIMIT, OFFSET) start a line at the baseline of the query they belong to and
// indent what follows by one level. FROM, LIMIT and OFFSET keep their argument
// on the same line. JOIN, AND and OR start a new line one level below the
// enclosing section. Every parenthesized subquery gets its own baseline, so its
// sections line up one level deeper than the line that opened it.
//
// Usage:
//
//	// Object-oriented API with default options
//	formatter := format.New(format.Defaults)
//	out, err := formatter.FormatString("SELECT a FROM t WHERE x = 1 AND y = 2")
//
//	// Custom indentation
//	formatter := format.New(format.FormatterOptions{IndentSize: 4})
//
//	// Scripts with several statements
//	script, _ := parser.ParseString("SELECT 1; SELECT a FROM t;")
//	var buf bytes.Buffer
//	err := format.Format(&buf, format.Defaults, script.Statements...)
//
// Output for the first example:
//
//	SELECT
//	  a
//	FROM t
//	WHERE
//	  x = 1
//	  AND y = 2
//
// Text that is not a keyword is copied verbatim, including its inner
// whitespace. A closing subquery parenthesis without a matching opening one
// fails with ErrUnbalancedSubquery; nothing else is rejected.
package format
