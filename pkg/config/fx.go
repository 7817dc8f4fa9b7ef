package config

import "go.uber.org/fx"

var Module = fx.Module("config", fx.Provide(
	// Loads sqlindent.yaml (or .yml/.toml, or $SQLINDENT_CONFIG) from the
	// working directory. Without a config file every setting has its default,
	// so commands never receive a nil config.
	func() (*Config, error) {
		return Load(".")
	},
))
