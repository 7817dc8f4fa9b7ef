// Package highlight colors the keywords of SQL text for terminal output.
package highlight

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pseudomuto/sqlindent/pkg/token"
)

// Highlighter wraps keyword tokens in ANSI color sequences.
type Highlighter struct {
	enabled bool
	section *color.Color
	keyword *color.Color
	paren   *color.Color
}

// New creates a Highlighter. When enabled is false Highlight returns its input
// unchanged, regardless of color.NoColor.
func New(enabled bool) *Highlighter {
	h := &Highlighter{
		enabled: enabled,
		section: color.New(color.FgBlue, color.Bold),
		keyword: color.New(color.FgMagenta),
		paren:   color.New(color.FgYellow),
	}

	for _, c := range []*color.Color{h.section, h.keyword, h.paren} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return h
}

// Enabled reports whether the highlighter emits color sequences.
func (h *Highlighter) Enabled() bool {
	return h.enabled
}

// Highlight colors section keywords, other keywords and subquery parentheses.
// Whitespace surrounding sql is preserved.
func (h *Highlighter) Highlight(sql string) string {
	if !h.enabled {
		return sql
	}

	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return sql
	}

	lead := sql[:strings.Index(sql, trimmed)]
	tail := sql[len(lead)+len(trimmed):]

	var sb strings.Builder
	sb.WriteString(lead)
	for _, tok := range token.Tokenize(trimmed) {
		sb.WriteString(h.paint(tok))
	}
	sb.WriteString(tail)

	return sb.String()
}

func (h *Highlighter) paint(tok token.Token) string {
	switch {
	case tok.Section:
		return h.section.Sprint(tok.Content)
	case tok.SubStart, tok.SubEnd:
		return h.paren.Sprint(tok.Content)
	case tok.Keyword && !tok.IsParen():
		// " JOIN" may carry its leading space
		content := strings.TrimLeft(tok.Content, " ")
		return tok.Content[:len(tok.Content)-len(content)] + h.keyword.Sprint(content)
	default:
		return tok.Content
	}
}
