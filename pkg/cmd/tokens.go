package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/token"
	"github.com/urfave/cli/v3"
)

// tokens creates a CLI command that prints the token stream the formatter
// works from, one token per line: byte offset, flags and quoted content.
//
// Flags are printed as five characters, a dash marking an unset flag:
//
//	K  keyword
//	S  section keyword
//	(  opens a subquery
//	)  closes a subquery
//	$  trailing text after the last keyword
//
// Example:
//
//	$ echo "SELECT a FROM (SELECT 1)" | sqlindent tokens
//	POS  FLAGS  CONTENT
//	0    KS---  "SELECT"
//	6    -----  " a "
//	9    KS---  "FROM"
//	13   -----  " "
//	14   K-(--  "("
//	...
func tokens() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Print the token stream of a query",
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return errors.New("at most one path argument is allowed")
			}

			src, err := readInput(cmd.Args().First(), stdin(cmd))
			if err != nil {
				return err
			}

			return printTokens(stdout(cmd), token.Tokenize(src))
		},
	}
}

func printTokens(w io.Writer, toks []token.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tFLAGS\tCONTENT")
	for _, tok := range toks {
		fmt.Fprintf(tw, "%d\t%s\t%q\n", tok.Pos, tok.Flags(), tok.Content)
	}

	return errors.Wrap(tw.Flush(), "failed to write tokens")
}
