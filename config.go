package sobel

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default file locations.
const (
	DefaultInput  = "assets/9.jpg"
	DefaultOutput = "assets/OUT.png"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("sobel: invalid config")

// Config describes one edge-detection run.
type Config struct {
	// Input is the image to read.
	Input string `yaml:"input"`

	// Output is where the grayscale PNG is written.
	Output string `yaml:"output"`

	// Workers is the size of the worker group. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Coordinator is the rank that owns the remainder rows and assembles the
	// result. DefaultCoordinator selects the last rank.
	Coordinator int `yaml:"coordinator"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Input:       DefaultInput,
		Output:      DefaultOutput,
		Workers:     runtime.GOMAXPROCS(0),
		Coordinator: DefaultCoordinator,
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
// Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("sobel: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sobel: parse config %s: %w", path, err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// Validate checks the fields that can be checked without reading the image.
func (c Config) Validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("%w: input is empty", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output is empty", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers = %d", ErrInvalidConfig, c.Workers)
	case c.Coordinator != DefaultCoordinator && (c.Coordinator < 0 || c.Coordinator >= c.Workers):
		return fmt.Errorf("%w: coordinator %d not in [0, %d)", ErrInvalidConfig, c.Coordinator, c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level. The empty string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
}
