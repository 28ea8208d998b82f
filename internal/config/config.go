// Package config loads lrascan settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/farcloser/lrascan/internal/discovery"
	"github.com/farcloser/lrascan/internal/store"
)

// DefaultResultsFile is the result file name, created inside the scanned folder.
const DefaultResultsFile = "lra_results.txt"

var errInvalidConfig = errors.New("invalid configuration")

// Config holds run settings. Zero values are replaced by defaults in Normalize.
type Config struct {
	// Analyzer is the executable used to measure loudness.
	Analyzer string `yaml:"analyzer"`
	// Workers is the number of concurrent analyzer processes.
	Workers int `yaml:"workers"`
	// ResultsFile is the result file path. Relative paths are resolved against the scanned folder.
	ResultsFile string `yaml:"results_file"`
	// Header is the first line of the result file.
	Header string `yaml:"header"`
	// Extensions is the audio format allow-list.
	Extensions []string `yaml:"extensions"`
	// Timeout bounds each analyzer invocation. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	// MetricsFile, when set, receives Prometheus metrics in text exposition format.
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Analyzer:    "ffmpeg",
		Workers:     runtime.NumCPU(),
		ResultsFile: DefaultResultsFile,
		Header:      store.DefaultHeader,
		Extensions:  append([]string(nil), discovery.DefaultExtensions...),
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path is user-provided by design
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Normalize fills empty settings with defaults and validates the rest.
func (c *Config) Normalize() error {
	def := Default()

	if c.Analyzer == "" {
		c.Analyzer = def.Analyzer
	}

	c.Workers = max(c.Workers, 1)

	if c.ResultsFile == "" {
		c.ResultsFile = def.ResultsFile
	}

	if c.Header == "" {
		c.Header = def.Header
	}

	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}

	c.Extensions = discovery.NormalizeExtensions(c.Extensions)
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: extensions list is empty", errInvalidConfig)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", errInvalidConfig, c.Timeout)
	}

	return nil
}
