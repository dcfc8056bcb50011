package picolog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// ApplyConfig handles all initialization and per-field validation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// FlushLevel sets the severity that forces an immediate flush.
func (b *Builder) FlushLevel(level int64) *Builder {
	b.cfg.FlushLevel = level
	return b
}

// Name sets the base name of the log files.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// Extension sets the active file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// BufferSize sets the record buffer capacity.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// DataBufferSize sets the measurement buffer capacity.
func (b *Builder) DataBufferSize(size int64) *Builder {
	b.cfg.DataBufferSize = size
	return b
}

// MaxFileSize sets the rotation threshold from a size spec such as
// "64kb" or "1mb". An invalid spec fails the build.
func (b *Builder) MaxFileSize(spec string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseSize(spec); err != nil {
		b.err = err
		return b
	}
	b.cfg.MaxFileSize = spec
	return b
}

// MaxRotations sets the number of archive files kept on disk.
func (b *Builder) MaxRotations(n int64) *Builder {
	b.cfg.MaxRotations = n
	return b
}

// EnableConsole enables mirroring records to the console.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// EnableFile enables file output.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// ConsoleTarget sets the console destination: stdout, stderr or split.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// TimestampFormat sets the timestamp layout for text output.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// InternalErrorsToStderr controls diagnostic reporting to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := picolog.NewBuilder().
//
//	Directory("/var/log/app").
//	LevelString("debug").
//	MaxFileSize("1mb").
//	BufferSize(64).
//	EnableConsole(false).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("app", "logger initialized")
//
// }
