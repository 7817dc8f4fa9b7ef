package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers a start hook that executes the sqlindent CLI with the given
// arguments and shuts the fx application down with exit code 1 when the
// command fails, 0 otherwise.
//
// Global Flags:
//   - --config, -c: Config file (defaults to sqlindent.yaml/.yml/.toml in the working directory)
//   - --verbose, -v: Log debug output, including every formatting decision
//
// Example usage:
//
//	fx.New(
//		fx.Supply(&cmd.Version{Version: "v1.0.0"}),
//		fx.Provide(func() []string { return os.Args }),
//		fx.Provide(func() context.Context { return ctx }),
//		config.Module,
//		cmd.Module,
//	).Run()
func Run(p Params) {
	app := NewApp(p.Version, p.Config, p.Commands...)

	p.Lifecycle.Append(fx.StartHook(func() {
		code := 0
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			code = 1
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
	}))
}

// NewApp builds the root command. Commands receive cfg by pointer; when
// --config is given, the file is loaded into cfg before any command runs.
func NewApp(version *Version, cfg *config.Config, commands ...*cli.Command) *cli.Command {
	if version == nil {
		version = &Version{Version: "dev"}
	}

	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", version.Timestamp)
	}

	return &cli.Command{
		Name:  "sqlindent",
		Usage: "A tool for indenting SQL queries",
		Description: `sqlindent lays out SQL queries with one clause per line, indenting
clause bodies, joins and logical operators, and giving every subquery its
own indentation baseline.`,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "the sqlindent config file",
				DefaultText: "sqlindent.yaml in the current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}

			errWriter := cmd.ErrWriter
			if errWriter == nil {
				errWriter = os.Stderr
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level})))

			path := cmd.String("config")
			if path == "" {
				return ctx, nil
			}
			if cfg == nil {
				return ctx, errors.New("cannot load config: no configuration to update")
			}

			loaded, err := config.LoadConfigFile(path)
			if err != nil {
				return ctx, errors.Wrap(err, "failed to load config")
			}

			slog.Debug("Loaded config", "path", path)
			*cfg = *loaded
			return ctx, nil
		},
		Commands: commands,
	}
}
