// Package config loads the refpipe configuration file.
//
// The configuration is a YAML document. Keys missing from the file keep
// their default values, and a missing file is not an error: the built-in
// defaults apply.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/npillmayer/refpipe"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/locale"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned for a configuration with unusable values.
var ErrInvalid = errors.New("invalid configuration")

// Config is the refpipe configuration.
type Config struct {
	Mode     backend.Mode `yaml:"mode"`
	Language string       `yaml:"language"`
	Trace    string       `yaml:"trace"`
	Prefixes locale.Table `yaml:"prefixes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Load reads the configuration file at path. An empty path or a file
// which does not exist yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a configuration from YAML, layered over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values of a configuration.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Trace) {
	case "", "error", "info", "debug":
	default:
		return fmt.Errorf("%w: trace level %q", ErrInvalid, c.Trace)
	}
	for lang := range c.Prefixes.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("%w: prefix set without language", ErrInvalid)
		}
	}
	return c.PrefixTable().Validate()
}

// TraceLevel returns the configured tracing level.
func (c *Config) TraceLevel() tracing.TraceLevel {
	if c.Trace == "" {
		return tracing.LevelError
	}
	return tracing.TraceLevelFromString(c.Trace)
}

// PrefixTable returns the built-in prefix table with the configured prefix
// sets layered over it.
func (c *Config) PrefixTable() *locale.Table {
	return locale.DefaultTable().Merge(&c.Prefixes)
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() []refpipe.Option {
	return []refpipe.Option{
		refpipe.WithMode(c.Mode),
		refpipe.WithPrefixes(&c.Prefixes),
		refpipe.WithDefaultLanguage(c.Language),
	}
}

// Pipeline creates a pipeline for this configuration.
func (c *Config) Pipeline() *refpipe.Pipeline {
	return refpipe.New(c.Options()...)
}
