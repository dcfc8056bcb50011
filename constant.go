package picolog

// Log level constants, slog-compatible spacing
const (
	LevelTrace int64 = -8
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	LevelFatal int64 = 12
)

// LevelOff is a configuration threshold that disables all output.
// It is never a record severity.
const LevelOff int64 = 16

// Record flags for controlling txt output structure
const (
	FlagShowTimestamp int64 = 0b0001
	FlagShowLevel     int64 = 0b0010
	FlagDefault             = FlagShowTimestamp | FlagShowLevel
)

// Storage
const (
	// Size multiplier for kb, mb
	sizeMultiplier int64 = 1000
	// Fallback rotation threshold when max_file_size cannot be parsed
	defaultMaxFileBytes int64 = 64 * sizeMultiplier
	// Per-record size estimates never drop below this
	defaultEntrySize int64 = 45
	// Zero-padding width of archive index suffixes
	archiveIndexWidth = 5
)

// Storage-pressure modes accepted by SetMode
const (
	ModeNormal = "normal"
	ModeMedium = "medium"
	ModeLow    = "low"
)

const defaultTimestampFormat = "2006-01-02T15:04:05.000Z07:00"
