package testutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// Result holds what a command wrote while it ran.
type Result struct {
	Stdout string
	Stderr string
}

// RunCommand executes command's flags and action as a root command, feeding
// it stdin and capturing its output.
func RunCommand(t *testing.T, command *cli.Command, stdin string, args ...string) (Result, error) {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, command, stdin, args...)
}

// RunCommandWithContext executes a command with a custom context
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, stdin string, args ...string) (Result, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := &cli.Command{
		Name:      command.Name,
		Flags:     command.Flags,
		Action:    command.Action,
		Reader:    strings.NewReader(stdin),
		Writer:    &stdout,
		ErrWriter: &stderr,
	}

	err := app.Run(ctx, append([]string{command.Name}, args...))
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}
