// Package config handles the sheetscope configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nconklindev/sheetscope/internal/loader"
)

// AppName names the directory under the user config dir.
const AppName = "sheetscope"

// Config holds user settings. Zero values are replaced by defaults on load.
type Config struct {
	RowLimit        int    `yaml:"row_limit" toml:"row_limit"`
	ChartTopN       int    `yaml:"chart_top_n" toml:"chart_top_n"`
	StartDir        string `yaml:"start_dir" toml:"start_dir"`
	CSVEncoding     string `yaml:"csv_encoding" toml:"csv_encoding"`
	DetectHeaderRow bool   `yaml:"detect_header_row" toml:"detect_header_row"`
	ShowHidden      bool   `yaml:"show_hidden" toml:"show_hidden"`
	LogFile         string `yaml:"log_file" toml:"log_file"`
}

func Default() Config {
	return Config{
		RowLimit:    200,
		ChartTopN:   25,
		CSVEncoding: "utf-8",
	}
}

// DefaultPath returns the first existing config file in the user config
// dir, preferring YAML. It returns "" when none exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(dir, AppName, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config at path, choosing YAML or TOML by extension.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.RowLimit == 0 {
		c.RowLimit = d.RowLimit
	}
	if c.ChartTopN == 0 {
		c.ChartTopN = d.ChartTopN
	}
	if c.CSVEncoding == "" {
		c.CSVEncoding = d.CSVEncoding
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.RowLimit <= 0 {
		return fmt.Errorf("row_limit must be positive, got %d", c.RowLimit)
	}
	if c.ChartTopN <= 0 {
		return fmt.Errorf("chart_top_n must be positive, got %d", c.ChartTopN)
	}
	if _, err := loader.LookupEncoding(c.CSVEncoding); err != nil {
		return err
	}
	if c.StartDir != "" {
		info, err := os.Stat(c.StartDir)
		if err != nil {
			return fmt.Errorf("start_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("start_dir %q is not a directory", c.StartDir)
		}
	}
	return nil
}

// LoaderOptions returns the parsing options derived from the config.
func (c Config) LoaderOptions() loader.Options {
	return loader.Options{
		CSVEncoding:     c.CSVEncoding,
		DetectHeaderRow: c.DetectHeaderRow,
	}
}
