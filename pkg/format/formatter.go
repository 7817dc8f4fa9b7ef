package format

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/parser"
	"github.com/pseudomuto/sqlindent/pkg/token"
)

// ErrUnbalancedSubquery is returned when a subquery is closed without a
// matching open subquery.
var ErrUnbalancedSubquery = errors.New("unbalanced subquery")

// FormatterOptions controls formatting behavior
type FormatterOptions struct {
	// IndentSize specifies the number of spaces for each indent level
	IndentSize int
	// Logger receives a debug trace of every rendering decision (nil = slog.Default())
	Logger *slog.Logger
}

// Defaults are the standard formatting options.
var Defaults = FormatterOptions{
	IndentSize: 2,
}

// sections that keep their argument on the same line
var inlineSections = []string{"FROM", "LIMIT", "OFFSET"}

// Formatter renders token streams as indented SQL
type Formatter struct {
	options FormatterOptions
	log     *slog.Logger
}

// New creates a new Formatter with the specified options. A non-positive
// IndentSize falls back to Defaults.IndentSize.
func New(options FormatterOptions) *Formatter {
	if options.IndentSize <= 0 {
		options.IndentSize = Defaults.IndentSize
	}

	log := options.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Formatter{options: options, log: log}
}

// IndentSize returns the number of spaces used per indent level.
func (f *Formatter) IndentSize() int {
	return f.options.IndentSize
}

// FormatString tokenizes and renders a single query.
func (f *Formatter) FormatString(input string) (string, error) {
	return f.Render(token.Tokenize(input))
}

// Render lays out the token stream. Section keywords start a line at the
// baseline of the enclosing query, JOIN/AND/OR start a line one level deeper,
// and every subquery gets its own baseline.
func (f *Formatter) Render(tokens []token.Token) (string, error) {
	var (
		out       []byte
		baselines = []int{0}
		level     = 0
	)

	for i, tok := range tokens {
		var (
			newlineBefore bool
			newlineAfter  bool
			hunk          string
			branch        string
		)

		switch {
		case tok.Section:
			branch = "section"
			newlineBefore = i > 0
			level = baselines[len(baselines)-1]
			hunk = f.indent(level) + tok.Content
			level++
			newlineAfter = !isInlineSection(tok.Content)
		case tok.SubEnd:
			branch = "sub_end"
			if len(baselines) < 2 {
				return "", errors.Wrapf(ErrUnbalancedSubquery, "closing %q at offset %d", tok.Content, tok.Pos)
			}

			level = baselines[len(baselines)-1] - 1
			baselines = baselines[:len(baselines)-1]
			newlineBefore = true
			hunk = f.indent(level) + tok.Content
		case tok.Keyword && !tok.IsParen():
			branch = "keyword"
			newlineBefore = true
			hunk = f.indent(level) + strings.TrimLeft(tok.Content, whitespace)
		case len(out) > 0 && out[len(out)-1] == '\n':
			branch = "newline"
			hunk = f.indent(level) + strings.TrimLeft(tok.Content, whitespace)
		default:
			branch = "default"
			hunk = tok.Content
		}

		if tok.SubStart {
			newlineAfter = true
			baselines = append(baselines, level+1)
		}

		if f.log.Enabled(context.Background(), slog.LevelDebug) {
			f.log.Debug("render token",
				"token", tok.String(),
				"branch", branch,
				"level", level,
				"depth", len(baselines)-1,
			)
		}

		if newlineAfter {
			hunk = strings.TrimRight(hunk, whitespace)
		}
		if newlineBefore {
			out = append(bytes.TrimRight(out, whitespace), '\n')
		}

		out = append(out, hunk...)
		if newlineAfter {
			out = append(out, '\n')
		}
	}

	return string(out), nil
}

// Format writes each statement formatted to w. Statements are separated by a
// blank line, keep their terminating semicolon and are preceded by their
// leading comments. The semicolon goes on a line of its own when the
// statement ends with a line comment or has no text at all, so splitting the
// output again yields the same statements.
func (f *Formatter) Format(w io.Writer, statements ...*parser.Statement) error {
	first := true
	for _, stmt := range statements {
		if stmt == nil || stmt.Empty() {
			continue
		}

		formatted, err := f.FormatString(stmt.Text)
		if err != nil {
			return errors.Wrapf(err, "failed to format statement at %s", stmt.Pos)
		}

		if stmt.Terminated {
			formatted = strings.TrimRight(formatted, whitespace)
			switch {
			case formatted == "":
				formatted = ";"
			case stmt.TrailingComment:
				formatted += "\n;"
			default:
				formatted += ";"
			}
		}

		lines := make([]string, 0, len(stmt.Comments)+1)
		lines = append(lines, stmt.Comments...)
		if formatted != "" {
			lines = append(lines, formatted)
		}

		if !first {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		first = false

		if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}

	return nil
}

// indent returns the specified number of indent levels as spaces
func (f *Formatter) indent(level int) string {
	if level <= 0 {
		return ""
	}

	return strings.Repeat(" ", level*f.options.IndentSize)
}

const whitespace = " \t\r\n\v\f"

func isInlineSection(kw string) bool {
	for _, s := range inlineSections {
		if strings.EqualFold(s, kw) {
			return true
		}
	}

	return false
}

// String formats a single query with the default options.
func String(input string) (string, error) {
	return New(Defaults).FormatString(input)
}

// Format writes the formatted statements to w using the given options.
func Format(w io.Writer, options FormatterOptions, statements ...*parser.Statement) error {
	return New(options).Format(w, statements...)
}
