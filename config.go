package picolog

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`
	Name      string `toml:"name"` // Base name for log files
	Directory string `toml:"directory"`
	Format    string `toml:"format"` // "txt" or "bin"
	Extension string `toml:"extension"`

	// Formatting
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`
	TimestampFormat string `toml:"timestamp_format"` // Time format for log timestamps

	// Buffer and size limits
	BufferSize     int64  `toml:"buffer_size"`      // Ring capacity in entries
	DataBufferSize int64  `toml:"data_buffer_size"` // Data channel ring capacity
	MaxFileSize    string `toml:"max_file_size"`    // Rotation threshold, size spec like "64kb"
	MaxRotations   int64  `toml:"max_rotations"`    // Archives kept beyond the active file

	// Output toggles
	EnableConsole bool   `toml:"log_to_console"` // Synchronous console mirror
	EnableFile    bool   `toml:"log_to_file"`    // Buffered file output
	ConsoleTarget string `toml:"console_target"` // "stdout", "stderr", or "split"

	// Flush policy
	FlushLevel int64 `toml:"flush_level"` // Severity that forces a synchronous flush

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:     LevelInfo,
	Name:      "pico",
	Directory: "./log",
	Format:    "txt",
	Extension: "log",

	// Formatting
	ShowTimestamp:   true,
	ShowLevel:       true,
	TimestampFormat: defaultTimestampFormat,

	// Buffer and size limits
	BufferSize:     5,
	DataBufferSize: 10,
	MaxFileSize:    "64kb",
	MaxRotations:   3,

	// Output toggles
	EnableConsole: true,
	EnableFile:    true,
	ConsoleTarget: "stdout",

	// Flush policy
	FlushLevel: LevelWarn,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// fileSizeLimit returns max_file_size in bytes.
func (c *Config) fileSizeLimit() int64 {
	return parseSizeOrDefault(c.MaxFileSize, defaultMaxFileBytes)
}

// sanitize replaces invalid field values with their defaults. Every field
// recovers independently; a bad value never rejects the whole config.
// The returned list describes the substitutions for reporting.
func (c *Config) sanitize() []error {
	var problems []error

	if c.Level < LevelTrace || c.Level > LevelOff {
		problems = append(problems, fmtErrorf("invalid level %d, using %s", c.Level, levelToString(defaultConfig.Level)))
		c.Level = defaultConfig.Level
	}

	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, fmtErrorf("log name cannot be empty, using '%s'", defaultConfig.Name))
		c.Name = defaultConfig.Name
	}

	if strings.TrimSpace(c.Directory) == "" {
		problems = append(problems, fmtErrorf("directory cannot be empty, using '%s'", defaultConfig.Directory))
		c.Directory = defaultConfig.Directory
	}

	if c.Format != "txt" && c.Format != "bin" {
		problems = append(problems, fmtErrorf("invalid format: '%s' (use txt or bin), using '%s'", c.Format, defaultConfig.Format))
		c.Format = defaultConfig.Format
	}

	if strings.HasPrefix(c.Extension, ".") {
		problems = append(problems, fmtErrorf("extension should not start with dot: '%s', using '%s'", c.Extension, strings.TrimLeft(c.Extension, ".")))
		c.Extension = strings.TrimLeft(c.Extension, ".")
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		problems = append(problems, fmtErrorf("timestamp_format cannot be empty, using default"))
		c.TimestampFormat = defaultConfig.TimestampFormat
	}

	if c.BufferSize <= 0 {
		problems = append(problems, fmtErrorf("buffer_size must be positive: %d, using %d", c.BufferSize, defaultConfig.BufferSize))
		c.BufferSize = defaultConfig.BufferSize
	}

	if c.DataBufferSize <= 0 {
		problems = append(problems, fmtErrorf("data_buffer_size must be positive: %d, using %d", c.DataBufferSize, defaultConfig.DataBufferSize))
		c.DataBufferSize = defaultConfig.DataBufferSize
	}

	if _, err := ParseSize(c.MaxFileSize); err != nil {
		problems = append(problems, fmtErrorf("invalid max_file_size '%s': %v, using '%s'", c.MaxFileSize, err, defaultConfig.MaxFileSize))
		c.MaxFileSize = defaultConfig.MaxFileSize
	}

	if c.MaxRotations < 0 {
		problems = append(problems, fmtErrorf("max_rotations cannot be negative: %d, using %d", c.MaxRotations, defaultConfig.MaxRotations))
		c.MaxRotations = defaultConfig.MaxRotations
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" && c.ConsoleTarget != "split" {
		problems = append(problems, fmtErrorf("invalid console_target: '%s' (use stdout, stderr, or split), using '%s'", c.ConsoleTarget, defaultConfig.ConsoleTarget))
		c.ConsoleTarget = defaultConfig.ConsoleTarget
	}

	if c.FlushLevel < LevelTrace || c.FlushLevel > LevelOff {
		problems = append(problems, fmtErrorf("invalid flush_level %d, using %s", c.FlushLevel, levelToString(defaultConfig.FlushLevel)))
		c.FlushLevel = defaultConfig.FlushLevel
	}

	return problems
}

// NewConfigFromFile loads configuration from a TOML file. A missing file
// yields the defaults. Unusable individual values fall back to their field
// defaults; only an unreadable or unparsable file is an error.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("picolog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	extractConfig(loader, "picolog.", cfg)

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config
// struct. A value that cannot be coerced leaves its field at the default.
func extractConfig(loader *config.Config, prefix string, cfg *Config) {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		if err := coerceConfigField(fieldValue, tomlTag, val); err != nil {
			continue // Field keeps its default
		}
	}
}

// coerceConfigField sets a field with type-tolerant conversion: level
// fields accept names or numbers, max_file_size accepts specs or byte
// counts.
func coerceConfigField(field reflect.Value, key string, value any) error {
	switch key {
	case "level", "flush_level":
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case string:
			levelVal, err := Level(v)
			if err != nil {
				return err
			}
			field.SetInt(levelVal)
		default:
			return fmtErrorf("%s must be a level name or number, got %T", key, value)
		}
		return nil

	case "max_file_size":
		switch v := value.(type) {
		case string:
			field.SetString(v)
		case int64:
			field.SetString(strconv.FormatInt(v, 10) + "b")
		case int:
			field.SetString(strconv.Itoa(v) + "b")
		default:
			return fmtErrorf("max_file_size must be a size spec or byte count, got %T", value)
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmtErrorf("%s: expected string, got %T", key, value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmtErrorf("%s: expected int64, got %T", key, value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmtErrorf("%s: expected bool, got %T", key, value)
		}
		field.SetBool(boolVal)

	default:
		return fmtErrorf("%s: unsupported field type: %v", key, field.Kind())
	}

	return nil
}
