package picolog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current
// configuration. Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := picolog.NewLogger()
//	err := logger.ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=warn",
//	    "max_file_size=128kb",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.GetConfig()

	if err := applyOverrideStrings(cfg, overrides); err != nil {
		return err
	}

	return l.ApplyConfig(cfg)
}

// applyOverrideStrings applies a batch of "key=value" strings to a Config.
func applyOverrideStrings(cfg *Config, overrides []string) error {
	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	return combineConfigErrors(errs)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("picolog: multiple configuration errors:")
	for i, err := range errs {
		errMsg := err.Error()
		// Remove "picolog: " prefix from individual errors to avoid duplication
		errMsg = strings.TrimPrefix(errMsg, "picolog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		levelVal, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = levelVal
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "format":
		cfg.Format = value
	case "extension":
		cfg.Extension = value

	// Formatting
	case "show_timestamp":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_timestamp '%s': %w", value, err)
		}
		cfg.ShowTimestamp = boolVal
	case "show_level":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for show_level '%s': %w", value, err)
		}
		cfg.ShowLevel = boolVal
	case "timestamp_format":
		cfg.TimestampFormat = value

	// Buffer and size limits
	case "buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_size '%s': %w", value, err)
		}
		cfg.BufferSize = intVal
	case "data_buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for data_buffer_size '%s': %w", value, err)
		}
		cfg.DataBufferSize = intVal
	case "max_file_size":
		// Accept both size specs ("64kb") and plain byte counts ("64000")
		if _, err := ParseSize(value); err == nil {
			cfg.MaxFileSize = value
		} else if _, errInt := strconv.ParseInt(value, 10, 64); errInt == nil {
			cfg.MaxFileSize = value + "b"
		} else {
			return fmtErrorf("invalid size value for max_file_size '%s': %w", value, err)
		}
	case "max_rotations":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_rotations '%s': %w", value, err)
		}
		cfg.MaxRotations = intVal

	// Output toggles
	case "log_to_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for log_to_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "log_to_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for log_to_file '%s': %w", value, err)
		}
		cfg.EnableFile = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// Flush policy
	case "flush_level":
		levelVal, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid flush_level value '%s': %w", value, err)
		}
		cfg.FlushLevel = levelVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// parseLevelValue accepts both numeric and named level values.
func parseLevelValue(value string) (int64, error) {
	if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
		return numVal, nil
	}
	return Level(value)
}
