package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pseudomuto/sqlindent/pkg/cmd/testutil"
	"github.com/pseudomuto/sqlindent/pkg/config"
	"github.com/pseudomuto/sqlindent/pkg/consts"
	"github.com/pseudomuto/sqlindent/pkg/parser"
	"github.com/stretchr/testify/require"
)

const (
	unformattedSQL = "select a from t where x = 1"
	formattedSQL   = "select\n  a\nfrom t\nwhere\n  x = 1\n"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestFmtCommand_Stdin(t *testing.T) {
	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL)
	require.NoError(t, err)
	require.Equal(t, formattedSQL, res.Stdout)

	res, err = testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "-")
	require.NoError(t, err)
	require.Equal(t, formattedSQL, res.Stdout)
}

func TestFmtCommand_StdinRejectsWriteAndList(t *testing.T) {
	for _, flag := range []string{"-w", "-l"} {
		_, err := testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, flag)
		require.Error(t, err, flag)
		require.Contains(t, err.Error(), "cannot use -w or -l with standard input")
	}
}

func TestFmtCommand_MultipleStatements(t *testing.T) {
	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "-- first\nSELECT a FROM t;SELECT b FROM u WHERE c = ';'")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"-- first",
		"SELECT",
		"  a",
		"FROM t;",
		"",
		"SELECT",
		"  b",
		"FROM u",
		"WHERE",
		"  c = ';'",
		"",
	}, "\n"), res.Stdout)
}

func TestFmtCommand_SingleFile(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "query.sql")
	writeFile(t, sqlFile, unformattedSQL)

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", sqlFile)
	require.NoError(t, err)
	require.Equal(t, formattedSQL, res.Stdout)

	// Source is left untouched
	require.Equal(t, unformattedSQL, readFile(t, sqlFile))
}

func TestFmtCommand_SingleFileWriteBack(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "query.sql")
	writeFile(t, sqlFile, unformattedSQL)

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", sqlFile)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)
	require.Equal(t, formattedSQL, readFile(t, sqlFile))

	// Formatting again is a no-op
	_, err = testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", sqlFile)
	require.NoError(t, err)
	require.Equal(t, formattedSQL, readFile(t, sqlFile))
}

func TestFmtCommand_TrailingCommentWriteBack(t *testing.T) {
	const want = "SELECT\n  a\nFROM t -- note\n;\n\nSELECT\n  b\nFROM u;\n"

	sqlFile := filepath.Join(t.TempDir(), "query.sql")
	writeFile(t, sqlFile, "SELECT a FROM t -- note\n;\nSELECT b FROM u;")

	_, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", sqlFile)
	require.NoError(t, err)
	require.Equal(t, want, readFile(t, sqlFile))

	script, err := parser.ParseString(readFile(t, sqlFile))
	require.NoError(t, err)
	require.Len(t, script.Statements, 2)

	// Formatting again is a no-op
	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-l", sqlFile)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)
	require.Equal(t, want, readFile(t, sqlFile))
}

func TestFmtCommand_KeepsFilesItCannotFormatSafely(t *testing.T) {
	const unsafe = "SELECT a FROM t WHERE note = 'rock and roll'\n"

	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.sql")
	formatted := filepath.Join(dir, "formatted.sql")
	writeFile(t, kept, unsafe)
	writeFile(t, formatted, unformattedSQL)

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", dir)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)
	require.Equal(t, unsafe, readFile(t, kept))
	require.Equal(t, formattedSQL, readFile(t, formatted))

	res, err = testutil.RunCommand(t, fmtCmd(config.Default()), "", "-l", dir)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)

	res, err = testutil.RunCommand(t, fmtCmd(config.Default()), unsafe)
	require.NoError(t, err)
	require.Equal(t, unsafe, res.Stdout)
}

func TestFmtCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sql"), "SELECT 1")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "b.sql"), "SELECT 2")
	writeFile(t, filepath.Join(dir, "z.sql"), "SELECT 3")
	writeFile(t, filepath.Join(dir, "notes.txt"), "SELECT 4")

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", dir)
	require.NoError(t, err)
	require.Equal(t, "SELECT\n  1\nSELECT\n  2\nSELECT\n  3\n", res.Stdout)
}

func TestFmtCommand_DirectoryWriteBack(t *testing.T) {
	dir := t.TempDir()
	files := make([]string, 0, 10)
	for i := range 10 {
		path := filepath.Join(dir, string(rune('a'+i))+".sql")
		writeFile(t, path, unformattedSQL)
		files = append(files, path)
	}

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", dir)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)

	for _, path := range files {
		require.Equal(t, formattedSQL, readFile(t, path), path)
	}
}

func TestFmtCommand_List(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.sql")
	dirty := filepath.Join(dir, "dirty.sql")
	writeFile(t, clean, formattedSQL)
	writeFile(t, dirty, unformattedSQL)

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-l", dir)
	require.NoError(t, err)
	require.Equal(t, dirty+"\n", res.Stdout)

	// List mode never writes
	require.Equal(t, unformattedSQL, readFile(t, dirty))
}

func TestFmtCommand_ConfiguredExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sql"), "SELECT 1")
	writeFile(t, filepath.Join(dir, "b.ddl"), "SELECT 2")

	cfg := config.Default()
	cfg.Extensions = []string{".ddl"}

	res, err := testutil.RunCommand(t, fmtCmd(cfg), "", dir)
	require.NoError(t, err)
	require.Equal(t, "SELECT\n  2\n", res.Stdout)
}

func TestFmtCommand_Indent(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		res, err := testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "--indent", "4")
		require.NoError(t, err)
		require.Equal(t, "select\n    a\nfrom t\nwhere\n    x = 1\n", res.Stdout)
	})

	t.Run("config", func(t *testing.T) {
		cfg := config.Default()
		cfg.IndentSize = 3

		res, err := testutil.RunCommand(t, fmtCmd(cfg), unformattedSQL)
		require.NoError(t, err)
		require.Equal(t, "select\n   a\nfrom t\nwhere\n   x = 1\n", res.Stdout)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "--indent=-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "indent must be positive")
	})
}

func TestFmtCommand_Color(t *testing.T) {
	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "--color", "always")
	require.NoError(t, err)
	require.Contains(t, res.Stdout, "\x1b[")
	require.Equal(t, formattedSQL, ansi.ReplaceAllString(res.Stdout, ""))

	// auto never colors a non-terminal
	res, err = testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "--color", "auto")
	require.NoError(t, err)
	require.Equal(t, formattedSQL, res.Stdout)

	_, err = testutil.RunCommand(t, fmtCmd(config.Default()), unformattedSQL, "--color", "rainbow")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid color mode")
}

func TestFmtCommand_ColorNotAppliedToFiles(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "query.sql")
	writeFile(t, sqlFile, unformattedSQL)

	_, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "-w", "--color", "always", sqlFile)
	require.NoError(t, err)
	require.Equal(t, formattedSQL, readFile(t, sqlFile))
}

func TestFmtCommand_EmptyFile(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "empty.sql")
	writeFile(t, sqlFile, "")

	res, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", sqlFile)
	require.NoError(t, err)
	require.Empty(t, res.Stdout)
}

func TestFmtCommand_NilConfig(t *testing.T) {
	res, err := testutil.RunCommand(t, fmtCmd(nil), unformattedSQL)
	require.NoError(t, err)
	require.Equal(t, formattedSQL, res.Stdout)
}

func TestFmtCommand_Errors(t *testing.T) {
	t.Run("nonexistent path", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", filepath.Join(t.TempDir(), "missing.sql"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to access path")
	})

	t.Run("empty directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "readme.md"), "# nothing")

		_, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", dir)
		require.Error(t, err)
		require.Contains(t, err.Error(), "no SQL files found in directory")
	})

	t.Run("multiple arguments", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(config.Default()), "", "a.sql", "b.sql")
		require.Error(t, err)
		require.Contains(t, err.Error(), "at most one path argument is allowed")
	})
}
