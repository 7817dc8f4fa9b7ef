package parser

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// scriptLexer only distinguishes what matters for finding statement
	// boundaries: anything that may hide a semicolon and the semicolon itself.
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `'([^'\\]|\\.)*'`},
		{Name: "QuotedIdent", Pattern: `"([^"\\]|\\.)*"`},
		{Name: "BacktickIdent", Pattern: "`([^`\\\\]|\\\\.)*`"},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Text", Pattern: "[^;'\"`\\-/\\s]+"},
		{Name: "Char", Pattern: `(?s).`},
	})

	symbols = scriptLexer.Symbols()
)

type (
	// Script is a sequence of SQL statements.
	Script struct {
		Statements []*Statement
	}

	// Statement is the source text of a single statement.
	Statement struct {
		// Comments holds the comments preceding the statement, one per entry,
		// without surrounding whitespace.
		Comments []string

		// Text is the statement itself, without the terminating semicolon.
		Text string

		// Pos is the position of the first character of Text (or of the first
		// comment when Text is empty).
		Pos lexer.Position

		// Terminated is true when the statement ended with a semicolon.
		Terminated bool

		// TrailingComment is true when Text ends with a line comment, so a
		// terminator appended to the same line would be commented out.
		TrailingComment bool
	}
)

// Empty reports whether the statement has neither text nor comments.
func (s *Statement) Empty() bool {
	return strings.TrimSpace(s.Text) == "" && len(s.Comments) == 0
}

// Parse splits the SQL read from reader into statements.
//
// Example usage:
//
//	f, err := os.Open("queries.sql")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer f.Close()
//
//	script, err := parser.Parse(f)
//	if err != nil {
//		log.Fatalf("Parse error: %v", err)
//	}
//
//	for _, stmt := range script.Statements {
//		fmt.Printf("%s: %s\n", stmt.Pos, stmt.Text)
//	}
func Parse(reader io.Reader) (*Script, error) {
	lex, err := scriptLexer.Lex("", reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}

	return split(lex)
}

// ParseString splits sql into statements. Semicolons inside string literals,
// quoted identifiers and comments do not end a statement. Comments that
// precede a statement are collected in Statement.Comments; everything else is
// kept verbatim in Statement.Text.
//
// Example usage:
//
//	script, err := parser.ParseString("SELECT ';' AS semi; -- totals\nSELECT count(*) FROM t")
//	if err != nil {
//		log.Fatalf("Parse error: %v", err)
//	}
//
//	fmt.Println(len(script.Statements)) // 2
//	fmt.Println(script.Statements[1].Comments) // [-- totals]
func ParseString(sql string) (*Script, error) {
	lex, err := scriptLexer.LexString("", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}

	return split(lex)
}

func split(lex lexer.Lexer) (*Script, error) {
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize SQL")
	}

	var (
		script  = &Script{}
		current = &Statement{}
		text    strings.Builder
		started bool
		comment bool
	)

	flush := func(terminated bool) {
		current.Text = strings.TrimSpace(text.String())
		current.Terminated = terminated
		current.TrailingComment = comment
		if !current.Empty() {
			script.Statements = append(script.Statements, current)
		}

		current = &Statement{}
		text.Reset()
		started = false
		comment = false
	}

	for _, tok := range tokens {
		if tok.EOF() {
			break
		}

		switch tok.Type {
		case symbols["Semicolon"]:
			flush(true)
		case symbols["Whitespace"]:
			if started {
				text.WriteString(tok.Value)
			}
		case symbols["Comment"], symbols["MultilineComment"]:
			if started {
				text.WriteString(tok.Value)
				comment = tok.Type == symbols["Comment"]
				continue
			}

			if len(current.Comments) == 0 {
				current.Pos = tok.Pos
			}
			current.Comments = append(current.Comments, strings.TrimSpace(tok.Value))
		default:
			if !started {
				started = true
				current.Pos = tok.Pos
			}
			text.WriteString(tok.Value)
			comment = false
		}
	}

	flush(false)
	return script, nil
}

// Verbatim returns the comments, string literals and quoted identifiers of
// sql in source order. Reindenting only moves whitespace between tokens, so
// a rewrite that keeps the meaning of sql yields the same sequence.
func Verbatim(sql string) ([]string, error) {
	lex, err := scriptLexer.LexString("", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize SQL")
	}

	var out []string
	for _, tok := range tokens {
		switch tok.Type {
		case symbols["Comment"], symbols["MultilineComment"], symbols["String"],
			symbols["QuotedIdent"], symbols["BacktickIdent"]:
			out = append(out, tok.Value)
		}
	}

	return out, nil
}
