package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/config"
	"github.com/pseudomuto/sqlindent/pkg/consts"
	"github.com/pseudomuto/sqlindent/pkg/format"
	"github.com/pseudomuto/sqlindent/pkg/highlight"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

type (
	fmtOptions struct {
		writeBack   bool
		list        bool
		formatter   *format.Formatter
		highlighter *highlight.Highlighter
		extensions  func(string) bool
	}

	fmtResult struct {
		path      string
		original  string
		formatted string
	}
)

func (r fmtResult) changed() bool {
	return r.original != r.formatted
}

// fmtCmd creates a CLI command for indenting SQL files. Like gofmt, it formats
// a single file, every matching file of a directory tree, or standard input.
//
// Output modes:
//   - Stdout mode (default): Formatted SQL is written to standard output
//   - Write mode (-w flag): Files are modified in-place with formatted content
//   - List mode (-l flag): Names of files whose formatting differs are printed
//
// Path handling:
//   - No path or "-": Read SQL from standard input
//   - File paths: Format the specified SQL file directly
//   - Directory paths: Recursively find and format all files with a configured
//     extension (.sql by default)
//
// Scripts are split into statements first; each statement is indented on its
// own and statements are separated by a blank line.
//
// Examples:
//
//	# Format standard input
//	echo "SELECT a FROM t WHERE x = 1" | sqlindent fmt
//
//	# Format single file in-place with 4-space indentation
//	sqlindent fmt -w --indent 4 queries.sql
//
//	# List files that need formatting
//	sqlindent fmt -l db/
func fmtCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format SQL files",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result to source files instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List files whose formatting differs",
			},
			&cli.IntFlag{
				Name:        "indent",
				Usage:       "Spaces per indent level",
				DefaultText: "from config",
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "Highlight keywords: auto, always or never",
				DefaultText: "from config",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return errors.New("at most one path argument is allowed")
			}

			if cfg == nil {
				cfg = config.Default()
			}

			indent := int(cmd.Int("indent"))
			if indent < 0 {
				return errors.Errorf("indent must be positive, got %d", indent)
			}
			if indent == 0 {
				indent = cfg.IndentSize
			}

			mode := cmd.String("color")
			if mode == "" {
				mode = cfg.Color
			}

			highlighter, err := newHighlighter(mode, stdout(cmd))
			if err != nil {
				return err
			}

			opts := fmtOptions{
				writeBack:   cmd.Bool("write"),
				list:        cmd.Bool("list"),
				formatter:   format.New(format.FormatterOptions{IndentSize: indent}),
				highlighter: highlighter,
				extensions:  cfg.HasExtension,
			}

			path := cmd.Args().First()
			if isStdin(path) {
				return formatStdin(stdin(cmd), stdout(cmd), opts)
			}

			return formatPath(ctx, path, stdout(cmd), opts)
		},
	}
}

// formatStdin formats standard input to writer.
func formatStdin(r io.Reader, writer io.Writer, opts fmtOptions) error {
	if opts.writeBack || opts.list {
		return errors.New("cannot use -w or -l with standard input")
	}

	src, err := readInput("-", r)
	if err != nil {
		return err
	}

	formatted, err := formatSource(opts.formatter, src)
	if errors.Is(err, errMeaningChanged) {
		slog.Warn("Leaving standard input unformatted", "err", err)
		formatted = src
	} else if err != nil {
		return errors.Wrap(err, "failed to format standard input")
	}

	_, err = fmt.Fprint(writer, opts.highlighter.Highlight(formatted))
	return errors.Wrap(err, "failed to write formatted content to output")
}

// formatPath handles formatting of either a single file or directory recursively.
func formatPath(ctx context.Context, path string, writer io.Writer, opts fmtOptions) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to access path: %s", path)
	}

	if info.IsDir() {
		return formatDirectory(ctx, path, writer, opts)
	}

	result, err := formatFile(path, opts)
	if err != nil {
		return err
	}

	return report(writer, []fmtResult{result}, opts)
}

// formatDirectory recursively walks through a directory and formats all
// matching files concurrently. Output is written in lexicographical file
// order once every file is formatted.
func formatDirectory(ctx context.Context, dir string, writer io.Writer, opts fmtOptions) error {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && opts.extensions(d.Name()) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to walk directory: %s", dir)
	}

	if len(files) == 0 {
		return errors.Errorf("no SQL files found in directory: %s", dir)
	}

	slog.Debug("Formatting directory", "dir", dir, "files", len(files))

	results := make([]fmtResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(files)))

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := formatFile(file, opts)
			if err != nil {
				return err
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return report(writer, results, opts)
}

// formatFile formats a single SQL file, writing it back when requested and
// the content changed.
func formatFile(path string, opts fmtOptions) (fmtResult, error) {
	content, err := readInput(path, nil)
	if err != nil {
		return fmtResult{}, err
	}

	formatted, err := formatSource(opts.formatter, content)
	if errors.Is(err, errMeaningChanged) {
		slog.Warn("Leaving file unformatted", "path", path, "err", err)
		formatted = content
	} else if err != nil {
		return fmtResult{}, errors.Wrapf(err, "failed to format SQL in file: %s", path)
	}

	result := fmtResult{path: path, original: content, formatted: formatted}

	if opts.writeBack && result.changed() {
		if err := os.WriteFile(path, []byte(formatted), consts.ModeFile); err != nil {
			return fmtResult{}, errors.Wrapf(err, "failed to write formatted content to file: %s", path)
		}
		slog.Debug("Formatted file", "path", path)
	}

	return result, nil
}

// report prints results according to the output mode: changed file names in
// list mode, nothing in write mode, formatted content otherwise.
func report(writer io.Writer, results []fmtResult, opts fmtOptions) error {
	for _, result := range results {
		var err error
		switch {
		case opts.list:
			if result.changed() {
				_, err = fmt.Fprintln(writer, result.path)
			}
		case opts.writeBack:
		default:
			_, err = fmt.Fprint(writer, opts.highlighter.Highlight(result.formatted))
		}

		if err != nil {
			return errors.Wrap(err, "failed to write formatted content to output")
		}
	}

	return nil
}
