// Package token splits SQL text into the keyword and non-keyword tokens that
// drive indentation.
//
// The vocabulary is deliberately small. Section keywords (SELECT, FROM, WHERE,
// GROUP BY, ORDER BY, LIMIT, OFFSET) start clauses; JOIN (optionally qualified
// by INNER, OUTER or LEFT), parentheses and the space-delimited logical
// operators AND/OR are structural. Everything else is passed through verbatim
// as non-keyword content, so the tokens always partition the trimmed input.
//
// Parentheses that open a subquery, that is a "(" followed by SELECT, are
// flagged with SubStart, and the ")" that closes the same nesting depth is
// flagged with SubEnd.
//
//	tokens := token.Tokenize("SELECT a FROM (SELECT a FROM t) AS x")
//	fmt.Println(token.Join(tokens) == "SELECT a FROM (SELECT a FROM t) AS x") // true
package token
