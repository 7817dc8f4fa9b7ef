package token

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Sections are the clause-introducing keywords, in matching priority order.
	Sections = []string{
		"SELECT",
		"FROM",
		"WHERE",
		"GROUP BY",
		"ORDER BY",
		"LIMIT",
		"OFFSET",
	}

	// others are the structural keywords matched after the sections. The
	// logical operators must be surrounded by spaces, and only the operator
	// itself (the "logic" group) becomes the token.
	others = []string{
		`(?:INNER|OUTER|LEFT)? ?JOIN`,
		`\(`,
		`\)`,
		` (?P<logic>AND|OR) `,
	}

	keywordPattern = compileKeywords()
	logicGroup     = keywordPattern.SubexpIndex("logic")

	subqueryPattern = regexp.MustCompile(`(?i)^\s*SELECT`)
)

func compileKeywords() *regexp.Regexp {
	alts := make([]string, 0, len(Sections)+len(others))
	for _, s := range Sections {
		alts = append(alts, regexp.QuoteMeta(s))
	}
	alts = append(alts, others...)

	return regexp.MustCompile(`(?i)` + strings.Join(alts, "|"))
}

// Token is a single lexical unit of a query. Keyword tokens hold the matched
// text, non-keyword tokens hold everything in between.
type Token struct {
	// Content is the exact text of the token, whitespace included.
	Content string
	// Pos is the byte offset of the token within the trimmed input.
	Pos int

	Keyword  bool
	Section  bool
	SubStart bool
	SubEnd   bool
	Last     bool
}

// IsParen reports whether the token is a bare parenthesis keyword.
func (t Token) IsParen() bool {
	return t.Keyword && (t.Content == "(" || t.Content == ")")
}

// String implements fmt.Stringer for debug output.
func (t Token) String() string {
	return fmt.Sprintf("%d:%s%q", t.Pos, t.Flags(), t.Content)
}

// Flags returns a compact representation of the classification flags, one
// letter per flag that is set: K(eyword), S(ection), ( for a subquery start,
// ) for a subquery end, and $ for the trailing token.
func (t Token) Flags() string {
	var sb strings.Builder
	for _, f := range []struct {
		set bool
		ch  byte
	}{
		{t.Keyword, 'K'},
		{t.Section, 'S'},
		{t.SubStart, '('},
		{t.SubEnd, ')'},
		{t.Last, '$'},
	} {
		if f.set {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}

// IsSection reports whether kw is one of the section keywords, ignoring case.
func IsSection(kw string) bool {
	for _, s := range Sections {
		if strings.EqualFold(s, kw) {
			return true
		}
	}

	return false
}

// Tokenize splits the input into keyword and non-keyword tokens. The input is
// trimmed first; concatenating the Content of every returned token yields the
// trimmed input. Tokenize never fails: text that matches no keyword is kept as
// ordinary content.
//
// Example:
//
//	for _, tok := range token.Tokenize("SELECT * FROM t") {
//		fmt.Println(tok)
//	}
func Tokenize(input string) []Token {
	src := strings.TrimSpace(input)

	var (
		tokens   []Token
		depth    int
		subquery []int // paren depths that opened a subquery
		pos      int
	)

	for pos < len(src) {
		loc := keywordPattern.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			tokens = append(tokens, Token{Content: src[pos:], Pos: pos, Last: true})
			break
		}

		start, end := pos+loc[0], pos+loc[1]
		if loc[2*logicGroup] >= 0 {
			start, end = pos+loc[2*logicGroup], pos+loc[2*logicGroup+1]
		}

		if start > pos {
			tokens = append(tokens, Token{Content: src[pos:start], Pos: pos})
		}

		kw := Token{
			Content: src[start:end],
			Pos:     start,
			Keyword: true,
			Section: IsSection(src[start:end]),
		}

		switch kw.Content {
		case "(":
			depth++
			if subqueryPattern.MatchString(src[end:]) {
				subquery = append(subquery, depth)
				kw.SubStart = true
			}
		case ")":
			if n := len(subquery); n > 0 && subquery[n-1] == depth {
				subquery = subquery[:n-1]
				kw.SubEnd = true
			}
			depth--
		}

		tokens = append(tokens, kw)
		pos = end
	}

	return tokens
}

// Join concatenates the content of tokens.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Content)
	}

	return sb.String()
}
