// Package parser splits SQL scripts into individual statements.
//
// It does not build a syntax tree. The scanner is a participle lexer that only
// knows about the constructs that can hide a semicolon (string literals,
// quoted and backtick identifiers, line and block comments), which is enough
// to cut a script at its statement terminators without touching the text in
// between.
//
// Basic usage:
//
//	script, err := parser.ParseString(`
//	    -- active users
//	    SELECT id FROM users WHERE active = 1;
//	    SELECT 'a;b' AS literal;
//	`)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, stmt := range script.Statements {
//		fmt.Println(stmt.Comments, stmt.Text, stmt.Terminated)
//	}
//
// Statement positions are reported as participle lexer positions (line and
// column), which callers use to point at the statement in error messages.
package parser
