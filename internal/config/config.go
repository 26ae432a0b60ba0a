package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mlexport/internal/report"
)

// Config carries every knob the pipeline reads. Values may come from a
// YAML file, flags, or both; flags win.
type Config struct {
	// InputDir is scanned for report* files.
	InputDir string `yaml:"input_dir"`
	// OutputDir receives every artifact. Defaults to InputDir.
	OutputDir string `yaml:"output_dir"`
	// Encoding names the legacy charset of the source files.
	Encoding string `yaml:"encoding"`
	// Formats selects the artifact writers: csv, sqlite, profile.
	Formats []string `yaml:"formats"`
	// SQLitePath overrides the default database filename.
	SQLitePath string `yaml:"sqlite_path"`
	// LocalTimeColumns adds *_local companions to the time columns.
	LocalTimeColumns bool `yaml:"local_time_columns"`
	// LogLevel is either "info" or "debug".
	LogLevel string `yaml:"log_level"`
}

var knownFormats = map[string]bool{
	"csv":     true,
	"sqlite":  true,
	"profile": true,
}

func Default() Config {
	return Config{
		InputDir: ".",
		Encoding: report.DefaultEncoding,
		Formats:  []string{"csv"},
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate normalizes the config and rejects unusable values.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir must not be empty")
	}
	if c.OutputDir == "" {
		c.OutputDir = c.InputDir
	}
	if _, ok := report.Encodings[strings.ToLower(c.Encoding)]; !ok {
		return fmt.Errorf("unknown encoding %q", c.Encoding)
	}
	c.Encoding = strings.ToLower(c.Encoding)
	if len(c.Formats) == 0 {
		c.Formats = []string{"csv"}
	}
	for i, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !knownFormats[f] {
			return fmt.Errorf("unknown output format %q", c.Formats[i])
		}
		c.Formats[i] = f
	}
	switch c.LogLevel {
	case "", "info":
		c.LogLevel = "info"
	case "debug":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// WantsFormat reports whether the named writer is enabled.
func (c *Config) WantsFormat(name string) bool {
	for _, f := range c.Formats {
		if f == name {
			return true
		}
	}
	return false
}
