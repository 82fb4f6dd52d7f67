// Package config — .locfill.yaml configuration file support.
//
// The config file is the sole source of truth for a translation run: the
// source-of-truth localization file, the output directory, the ordered
// target locale list, and the names (not values) of the environment
// variables holding the provider credentials.
//
// A missing config file is not fatal: a default one is materialized with
// placeholder values so the user has something to edit, and the run
// continues with those defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".locfill.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .locfill.yaml structure.
type Config struct {
	// Source is the source-of-truth localization file, relative to the
	// config file's directory.
	Source string `yaml:"source"`
	// OutputDir is where per-locale files are written: {OutputDir}/{locale}.{ext}.
	OutputDir string `yaml:"output_dir"`
	// Locales is the ordered list of target locales.
	Locales []string `yaml:"locales"`

	// APIKeyEnv names the environment variable holding the provider API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// RegionEnv names the environment variable holding the provider region.
	RegionEnv string `yaml:"region_env"`
	// Endpoint overrides the provider API base URL (optional).
	Endpoint string `yaml:"endpoint,omitempty"`

	// RetryCount is the number of attempts per string (default 3).
	RetryCount int `yaml:"retry_count,omitempty"`
	// RetryDelayMs is the initial backoff delay in milliseconds
	// (default 1000), doubled after each failed attempt.
	RetryDelayMs int `yaml:"retry_delay_ms,omitempty"`
	// MaxConcurrent bounds concurrent provider calls within one locale
	// (default 4).
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// Default returns the placeholder configuration written on first run.
func Default() *Config {
	return &Config{
		Source:        "locales/en.json",
		OutputDir:     "locales",
		Locales:       []string{"es", "fr", "de"},
		APIKeyEnv:     "TRANSLATOR_API_KEY",
		RegionEnv:     "TRANSLATOR_REGION",
		RetryCount:    3,
		RetryDelayMs:  1000,
		MaxConcurrent: 4,
	}
}

// RetryDelay returns the initial backoff delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	if c.RetryDelayMs > 0 {
		return time.Duration(c.RetryDelayMs) * time.Millisecond
	}
	return time.Second
}

// TargetPath returns the locale file path for a locale, using the source
// file's extension: {OutputDir}/{locale}.{ext}.
func (c *Config) TargetPath(locale string) string {
	return filepath.Join(c.OutputDir, locale+filepath.Ext(c.Source))
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .locfill.yaml from dir. When the file does not exist it is
// created with Default()'s placeholder values and (cfg, true, nil) is
// returned so the caller can warn. Paths inside the config are resolved
// relative to dir.
func Load(dir string) (cfg *Config, created bool, err error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("reading %s: %w", path, err)
		}
		cfg = Default()
		if err := cfg.Write(path); err != nil {
			return nil, false, err
		}
		cfg.resolve(dir)
		return cfg, true, nil
	}

	cfg = &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, false, err
	}
	cfg.resolve(dir)
	return cfg, false, nil
}

// Write serializes the config to path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = d.APIKeyEnv
	}
	if c.RegionEnv == "" {
		c.RegionEnv = d.RegionEnv
	}
	if c.RetryCount <= 0 {
		c.RetryCount = d.RetryCount
	}
	if c.RetryDelayMs <= 0 {
		c.RetryDelayMs = d.RetryDelayMs
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = d.MaxConcurrent
	}
}

func (c *Config) validate(path string) error {
	if c.Source == "" {
		return fmt.Errorf("%s: source is required", path)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%s: output_dir is required", path)
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("%s: at least one target locale is required", path)
	}
	return nil
}

// resolve makes Source and OutputDir absolute relative to the config dir.
func (c *Config) resolve(dir string) {
	if !filepath.IsAbs(c.Source) {
		c.Source = filepath.Join(dir, c.Source)
	}
	if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(dir, c.OutputDir)
	}
}
