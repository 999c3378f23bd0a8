// Package config loads the optional YAML configuration file. Command-line
// flags and environment variables override what the file sets.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/m-mizutani/goerr/v2"
)

// Defaults used when neither the file nor a flag sets a value.
const (
	DefaultDataDir   = "data"
	DefaultFirstYear = 2016
	DefaultLastYear  = 2023
	DefaultAddr      = "localhost:8080"
	DefaultTop       = 10
)

// Config holds the settings a config file may provide.
type Config struct {
	DataDir   string `koanf:"data_dir"`
	FirstYear int    `koanf:"first_year"`
	LastYear  int    `koanf:"last_year"`
	Addr      string `koanf:"addr"`
	Top       int    `koanf:"top"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		FirstYear: DefaultFirstYear,
		LastYear:  DefaultLastYear,
		Addr:      DefaultAddr,
		Top:       DefaultTop,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, goerr.Wrap(err, "failed to load config file", goerr.V("path", path))
	}

	if k.Exists("data_dir") {
		cfg.DataDir = k.String("data_dir")
	}
	if k.Exists("first_year") {
		cfg.FirstYear = k.Int("first_year")
	}
	if k.Exists("last_year") {
		cfg.LastYear = k.Int("last_year")
	}
	if k.Exists("addr") {
		cfg.Addr = k.String("addr")
	}
	if k.Exists("top") {
		cfg.Top = k.Int("top")
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V("path", path))
	}
	return cfg, nil
}

// Validate checks the year range and the summary size.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return goerr.New("data_dir must not be empty")
	}
	if c.LastYear < c.FirstYear {
		return goerr.New("last_year is before first_year",
			goerr.V("first_year", c.FirstYear), goerr.V("last_year", c.LastYear))
	}
	if c.Top < 1 {
		return goerr.New("top must be positive", goerr.V("top", c.Top))
	}
	return nil
}
