package picolog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSize converts a size specification to a byte count. Integer inputs
// are taken as bytes directly. String inputs carry a decimal unit suffix:
// "b", "kb" (1000) or "mb" (1000*1000), so "64kb" is 64000 bytes.
// Malformed specs and non-positive results fail with ErrInvalidSizeSpec.
func ParseSize(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return checkSize(int64(val))
	case int32:
		return checkSize(int64(val))
	case int64:
		return checkSize(val)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows", ErrInvalidSizeSpec, val)
		}
		return checkSize(int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows", ErrInvalidSizeSpec, val)
		}
		return checkSize(int64(val))
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%w: fractional byte count %v", ErrInvalidSizeSpec, val)
		}
		return checkSize(int64(val))
	case string:
		return parseSizeString(val)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidSizeSpec, v)
	}
}

// parseSizeString parses the "<number><unit>" form. The number part is
// unsigned digits only, so "kb64" and "-5kb" both fail.
func parseSizeString(spec string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return 0, fmt.Errorf("%w: empty spec", ErrInvalidSizeSpec)
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: '%s' must start with a number", ErrInvalidSizeSpec, spec)
	}

	n, err := strconv.ParseInt(s[:digits], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s': %v", ErrInvalidSizeSpec, spec, err)
	}

	var multiplier int64
	switch s[digits:] {
	case "b":
		multiplier = 1
	case "kb":
		multiplier = sizeMultiplier
	case "mb":
		multiplier = sizeMultiplier * sizeMultiplier
	default:
		return 0, fmt.Errorf("%w: '%s' has unknown unit '%s' (use b, kb, or mb)", ErrInvalidSizeSpec, spec, s[digits:])
	}

	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: '%s' overflows", ErrInvalidSizeSpec, spec)
	}
	return checkSize(n * multiplier)
}

func checkSize(n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSizeSpec, n)
	}
	return n, nil
}

// parseSizeOrDefault resolves a size spec with a fallback. Configuration
// callers always have a documented default, failures here are never fatal.
func parseSizeOrDefault(v any, def int64) int64 {
	n, err := ParseSize(v)
	if err != nil {
		return def
	}
	return n
}
