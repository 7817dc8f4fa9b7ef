package cmd

import (
	"bytes"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/consts"
	"github.com/pseudomuto/sqlindent/pkg/format"
	"github.com/pseudomuto/sqlindent/pkg/highlight"
	"github.com/pseudomuto/sqlindent/pkg/parser"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// stdout returns the writer of cmd, falling back to the root command's.
func stdout(cmd *cli.Command) io.Writer {
	if cmd.Writer != nil {
		return cmd.Writer
	}
	if root := cmd.Root(); root.Writer != nil {
		return root.Writer
	}

	return os.Stdout
}

// stdin returns the reader of cmd, falling back to the root command's.
func stdin(cmd *cli.Command) io.Reader {
	if cmd.Reader != nil {
		return cmd.Reader
	}
	if root := cmd.Root(); root.Reader != nil {
		return root.Reader
	}

	return os.Stdin
}

// isStdin reports whether path refers to standard input.
func isStdin(path string) bool {
	return path == "" || path == "-"
}

// readInput reads the file at path, or r when path refers to standard input.
func readInput(path string, r io.Reader) (string, error) {
	if isStdin(path) {
		if r == nil {
			r = os.Stdin
		}

		content, err := io.ReadAll(r)
		if err != nil {
			return "", errors.Wrap(err, "failed to read standard input")
		}
		return string(content), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file: %s", path)
	}

	return string(content), nil
}

// errMeaningChanged is returned when reindenting would move a keyword that
// sits inside a comment or literal, or would merge or split statements.
var errMeaningChanged = errors.New("formatting would change the meaning of the SQL")

// formatSource splits src into statements and formats them. Non-empty output
// ends with a newline. Output that would not split back into the same
// statements, comments and literals is rejected with errMeaningChanged.
func formatSource(f *format.Formatter, src string) (string, error) {
	script, err := parser.ParseString(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, script.Statements...); err != nil {
		return "", err
	}

	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}

	if err := verifyFormatted(src, len(script.Statements), buf.String()); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func verifyFormatted(src string, statements int, out string) error {
	again, err := parser.ParseString(out)
	if err != nil {
		return err
	}
	if n := len(again.Statements); n != statements {
		return errors.Wrapf(errMeaningChanged, "%d statements became %d", statements, n)
	}

	before, err := parser.Verbatim(src)
	if err != nil {
		return err
	}
	after, err := parser.Verbatim(out)
	if err != nil {
		return err
	}
	if !slices.Equal(before, after) {
		return errors.Wrap(errMeaningChanged, "a keyword inside a comment or literal would be moved")
	}

	return nil
}

// newHighlighter resolves a color mode for output written to w. In auto mode
// color is enabled only when w is a terminal.
func newHighlighter(mode string, w io.Writer) (*highlight.Highlighter, error) {
	switch mode {
	case consts.ColorAlways:
		return highlight.New(true), nil
	case consts.ColorNever:
		return highlight.New(false), nil
	case consts.ColorAuto, "":
		f, ok := w.(*os.File)
		return highlight.New(ok && term.IsTerminal(int(f.Fd()))), nil
	default:
		return nil, errors.Errorf("invalid color mode %q: must be auto, always or never", mode)
	}
}
