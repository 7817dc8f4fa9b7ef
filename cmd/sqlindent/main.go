package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pseudomuto/sqlindent/pkg/cmd"
	"github.com/pseudomuto/sqlindent/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version = "dev"
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.NopLogger,
		// history may wait on a slow ClickHouse server from the start hook
		fx.StartTimeout(10*time.Minute),
		fx.Supply(&cmd.Version{
			Version:   version,
			Commit:    commit,
			Timestamp: date,
		}),
		fx.Provide(
			func() []string { return os.Args },
			func() context.Context { return ctx },
		),
		config.Module,
		cmd.Module,
	)

	// Providers run while the app is built, so a broken config file surfaces
	// here rather than through the (silenced) fx logger.
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	app.Run()
}
