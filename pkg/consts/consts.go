package consts

import "os"

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// EnvConfig names the environment variable holding an explicit config path
	EnvConfig = "SQLINDENT_CONFIG"

	// EnvClickHouseURL names the environment variable holding the history DSN
	EnvClickHouseURL = "SQLINDENT_CLICKHOUSE_URL"

	// DefaultIndentSize is the number of spaces per indent level
	DefaultIndentSize = 2

	// DefaultQueryLimit is the number of queries fetched from ClickHouse
	DefaultQueryLimit = 20

	// ColorAuto enables color when writing to a terminal
	ColorAuto = "auto"
	// ColorAlways forces color output
	ColorAlways = "always"
	// ColorNever disables color output
	ColorNever = "never"
)

var (
	// ConfigFiles are the config file names looked up in the working directory, in order
	ConfigFiles = []string{"sqlindent.yaml", "sqlindent.yml", "sqlindent.toml"}

	// DefaultExtensions are the file suffixes formatted when walking directories
	DefaultExtensions = []string{".sql"}
)
