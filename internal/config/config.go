package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Filename is looked up in the root of the repo checkout.
const Filename = ".update-manpages.yaml"

type Config struct {
	LogLevel    slog.Level        `yaml:"log_level"`
	Generator   string            `yaml:"generator"`
	ManDir      string            `yaml:"man_dir"`
	ManualTitle string            `yaml:"manual_title"`
	Entrypoint  string            `yaml:"entrypoint"`
	Aliases     map[string]string `yaml:"aliases"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogLevel:    slog.LevelInfo,
		Generator:   "help2man",
		ManDir:      "man",
		ManualTitle: "Repo Manual",
		Entrypoint:  "./repo",
		// "repo branch" is an alias for "repo branches".
		Aliases: map[string]string{"branch": "branches"},
	}
}

// Load reads Filename from root. A missing file yields Default.
func Load(root string) (*Config, error) {
	f, err := os.Open(filepath.Join(root, Filename))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Filename, err)
	}
	return cfg, nil
}

// Parse decodes a yaml document on top of Default. An absent or null
// aliases key keeps the default aliases, only `aliases: {}` disables redirects.
func Parse(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	c := Default()
	aliases := c.Aliases
	c.Aliases = nil
	err := decoder.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if c.Aliases == nil {
		c.Aliases = aliases
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Generator == "" {
		return keyEmptyError("generator")
	}
	if c.ManDir == "" {
		return keyEmptyError("man_dir")
	}
	if c.ManualTitle == "" {
		return keyEmptyError("manual_title")
	}
	if c.Entrypoint == "" {
		return keyEmptyError("entrypoint")
	}
	for alias, canonical := range c.Aliases {
		if alias == "" || canonical == "" {
			return keyEmptyError("aliases")
		}
	}
	return nil
}

func keyEmptyError(key string) error {
	return fmt.Errorf("key '%s' is missing or value is empty", key)
}
