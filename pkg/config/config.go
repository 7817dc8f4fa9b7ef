package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlindent/pkg/consts"
	"github.com/pseudomuto/sqlindent/pkg/format"
	"gopkg.in/yaml.v3"
)

type (
	// TLS names the PEM files used for encrypted ClickHouse connections.
	TLS struct {
		CertFile string `yaml:"cert_file,omitempty" toml:"cert_file"`
		KeyFile  string `yaml:"key_file,omitempty" toml:"key_file"`
		CAFile   string `yaml:"ca_file,omitempty" toml:"ca_file"`
	}

	// ClickHouse represents settings for reading queries from a ClickHouse server.
	ClickHouse struct {
		// URL is the server DSN (host:port, clickhouse://, tcp://)
		URL string `yaml:"url,omitempty" toml:"url"`

		// Limit is the maximum number of queries fetched by the history command
		Limit int `yaml:"limit,omitempty" toml:"limit"`

		// IgnoreDatabases lists databases whose queries and views are skipped
		IgnoreDatabases []string `yaml:"ignore_databases,omitempty" toml:"ignore_databases"`

		// TLS enables encrypted connections when any file is set
		TLS TLS `yaml:"tls,omitempty" toml:"tls"`
	}

	// Config represents the sqlindent configuration.
	Config struct {
		// IndentSize is the number of spaces per indent level
		IndentSize int `yaml:"indent_size" toml:"indent_size"`

		// Extensions are the file suffixes formatted when walking directories
		Extensions []string `yaml:"extensions" toml:"extensions"`

		// Color controls terminal highlighting: auto, always or never
		Color string `yaml:"color" toml:"color"`

		// ClickHouse contains the settings used by the history command
		ClickHouse ClickHouse `yaml:"clickhouse" toml:"clickhouse"`
	}
)

// Default returns a configuration with every setting at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.IndentSize == 0 {
		c.IndentSize = consts.DefaultIndentSize
	}
	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(consts.DefaultExtensions)
	}
	if c.Color == "" {
		c.Color = consts.ColorAuto
	}
	if c.ClickHouse.Limit == 0 {
		c.ClickHouse.Limit = consts.DefaultQueryLimit
	}
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.IndentSize < 1 {
		return errors.Errorf("indent_size must be positive, got %d", c.IndentSize)
	}

	switch c.Color {
	case consts.ColorAuto, consts.ColorAlways, consts.ColorNever:
	default:
		return errors.Errorf("color must be one of auto, always or never, got %q", c.Color)
	}

	if c.ClickHouse.Limit < 1 {
		return errors.Errorf("clickhouse.limit must be positive, got %d", c.ClickHouse.Limit)
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Errorf("extension %q must start with a dot", ext)
		}
	}

	return nil
}

// HasExtension reports whether path ends with one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}

	return false
}

// GetFormatter returns a formatter configured with the indent size.
func (c *Config) GetFormatter() *format.Formatter {
	return format.New(format.FormatterOptions{IndentSize: c.IndentSize})
}

// LoadConfig parses a YAML configuration from the provided io.Reader.
//
// Missing settings (or an empty document) are filled in with their defaults
// and the result is validated.
//
// Example:
//
//	yamlData := `
//	indent_size: 4
//	clickhouse:
//	  url: localhost:9000
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Indent: %d\n", cfg.IndentSize)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return finish(&cfg)
}

// LoadTOMLConfig parses a TOML configuration from the provided io.Reader.
func LoadTOMLConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path. Files
// ending in .toml are decoded as TOML, everything else as YAML.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("sqlindent.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOMLConfig(f)
	}

	return LoadConfig(f)
}

// Find returns the config file to load from dir: the path named by the
// SQLINDENT_CONFIG environment variable if set, otherwise the first of
// consts.ConfigFiles present in dir. It returns an empty string when there is
// nothing to load.
func Find(dir string) (string, error) {
	if path := os.Getenv(consts.EnvConfig); path != "" {
		return path, nil
	}

	for _, name := range consts.ConfigFiles {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "failed to access config: %s", path)
		}
	}

	return "", nil
}

// Load finds and loads the configuration for dir, falling back to Default
// when there is no config file.
func Load(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return Default(), nil
	}

	return LoadConfigFile(path)
}
