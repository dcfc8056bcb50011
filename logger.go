package picolog

import (
	"io"
	"os"
	"sync"
)

// Logger is the core struct that encapsulates all logger functionality.
// One mutex is the single mutual-exclusion boundary around the emit and
// flush path; there is no background goroutine, every flush happens on a
// caller's stack. Hosts create explicit instances, there is no package
// level default.
type Logger struct {
	mu    sync.Mutex
	cfg   *Config
	state State

	ser      *serializer
	ring     *ring
	dataRing *ring

	store     recordStore
	dataStore recordStore

	consoleOut io.Writer
	consoleErr io.Writer

	scratch     []record
	dataScratch []record

	mode      string
	modeFloor int64
}

// recordStore is the storage contract the facade flushes into. The real
// implementation is fileStore.
type recordStore interface {
	write(records []record) (int, error)
	sync() error
	close() error
	activeSize() int64
}

// NewLogger creates a new Logger instance with default settings. The
// logger stays inert until a configuration is applied.
func NewLogger() *Logger {
	return &Logger{
		cfg:        DefaultConfig(),
		ser:        newSerializer(),
		consoleOut: os.Stdout,
		consoleErr: os.Stderr,
		mode:       ModeNormal,
		modeFloor:  LevelTrace,
	}
}

// ApplyConfig applies a configuration to the logger. Field values that do
// not validate are replaced with their defaults and reported, never fatal.
// Applying over a running logger flushes and restarts its file stores;
// configuration is otherwise immutable.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	cfg = cfg.Clone()
	problems := cfg.sanitize()

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, problem := range problems {
		l.internalLog("config: %v\n", problem)
	}

	return l.applyConfig(cfg)
}

// applyConfig is the internal implementation for applying configuration, assuming mu is held
func (l *Logger) applyConfig(cfg *Config) error {
	// Restart semantics: drain and close the previous stores first
	if l.state.IsInitialized.Load() {
		if err := l.flushRing(); err != nil {
			l.internalLog("flush before reconfigure failed: %v\n", err)
		}
		if err := l.flushData(); err != nil {
			l.internalLog("data flush before reconfigure failed: %v\n", err)
		}
		if l.store != nil {
			if err := l.store.close(); err != nil {
				l.internalLog("%v\n", err)
			}
		}
		if l.dataStore != nil {
			if err := l.dataStore.close(); err != nil {
				l.internalLog("%v\n", err)
			}
		}
		l.store = nil
		l.dataStore = nil
		l.state.IsInitialized.Store(false)
	}

	l.cfg = cfg
	l.ser.setTimestampFormat(cfg.TimestampFormat)
	l.ring = newRing(int(cfg.BufferSize))
	l.dataRing = newRing(int(cfg.DataBufferSize))
	l.scratch = nil
	l.dataScratch = nil
	l.store = nil
	l.dataStore = nil

	if cfg.EnableFile {
		maxBytes := cfg.fileSizeLimit()
		store, err := openFileStore(cfg.Directory, cfg.Name, cfg.Extension, maxBytes, cfg.MaxRotations, &l.state, l.internalLog)
		if err != nil {
			return err
		}
		dataStore, err := openFileStore(cfg.Directory, cfg.Name+"_data", "csv", maxBytes, cfg.MaxRotations, &l.state, l.internalLog)
		if err != nil {
			_ = store.close()
			return err
		}
		l.store = store
		l.dataStore = dataStore
	}

	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)
	return nil
}

// Init loads configuration from a TOML file and applies it. A missing
// file applies defaults. Override strings in key=value form take
// precedence over file values.
func (l *Logger) Init(path string, overrides ...string) error {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return err
	}
	if err := applyOverrideStrings(cfg, overrides); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// InitWithDefaults applies the default configuration plus key=value
// override strings.
func (l *Logger) InitWithDefaults(overrides ...string) error {
	cfg := DefaultConfig()
	if err := applyOverrideStrings(cfg, overrides); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg.Clone()
}

// Flush synchronously writes all buffered records and measurements to
// storage and syncs the active files. Hosts with a periodic tick call
// this from their scheduler; there is no internal timer.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}

	finalErr := combineErrors(l.flushRing(), l.flushData())
	if l.store != nil {
		finalErr = combineErrors(finalErr, l.store.sync())
	}
	if l.dataStore != nil {
		finalErr = combineErrors(finalErr, l.dataStore.sync())
	}
	return finalErr
}

// Shutdown flushes pending records and closes the file stores. Idempotent:
// repeated calls return nil.
func (l *Logger) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}
	if !l.state.IsInitialized.Load() {
		return nil
	}

	finalErr := combineErrors(l.flushRing(), l.flushData())
	if l.store != nil {
		finalErr = combineErrors(finalErr, l.store.close())
		l.store = nil
	}
	if l.dataStore != nil {
		finalErr = combineErrors(finalErr, l.dataStore.close())
		l.dataStore = nil
	}
	l.state.IsInitialized.Store(false)
	return finalErr
}

// SetMode applies a storage-pressure mode. "low" and "medium" raise the
// effective severity floor to WARN, "normal" restores the configured
// level. The floor affects filtering only, never flush policy.
func (l *Logger) SetMode(mode string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch mode {
	case ModeNormal:
		l.modeFloor = LevelTrace
	case ModeMedium, ModeLow:
		l.modeFloor = LevelWarn
	default:
		return fmtErrorf("invalid mode: '%s' (use normal, medium, or low)", mode)
	}
	l.mode = mode
	return nil
}

// Mode returns the current storage-pressure mode.
func (l *Logger) Mode() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Stats returns a point-in-time snapshot of logger counters.
func (l *Logger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := Stats{
		Dropped:      l.state.DroppedEntries.Load(),
		DroppedData:  l.state.DroppedData.Load(),
		Flushes:      l.state.TotalFlushes.Load(),
		FailedWrites: l.state.FailedWrites.Load(),
		Rotations:    l.state.TotalRotations.Load(),
		Deletions:    l.state.TotalDeletions.Load(),
		BytesWritten: l.state.BytesWritten.Load(),
		Level:        l.cfg.Level,
		Mode:         l.mode,
	}
	if l.modeFloor > st.Level {
		st.Level = l.modeFloor
	}
	if l.ring != nil {
		st.Buffered = l.ring.len()
	}
	if l.dataRing != nil {
		st.DataBuffered = l.dataRing.len()
	}
	if l.store != nil {
		st.ActiveSize = l.store.activeSize()
	}
	if l.dataStore != nil {
		st.DataActiveSize = l.dataStore.activeSize()
	}
	return st
}

// LogStats emits the current counters as an info record. Hosts tick this
// where a heartbeat is wanted.
func (l *Logger) LogStats(tag string) {
	st := l.Stats()
	l.Log(LevelInfo, tag, st.String())
}

// Log buffers a record at the given severity. Records at or above the
// configured flush level reach storage before Log returns.
func (l *Logger) Log(level int64, tag, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log(level, tag, message)
}

// Trace logs a message at trace level
func (l *Logger) Trace(tag, message string) {
	l.Log(LevelTrace, tag, message)
}

// Debug logs a message at debug level
func (l *Logger) Debug(tag, message string) {
	l.Log(LevelDebug, tag, message)
}

// Info logs a message at info level
func (l *Logger) Info(tag, message string) {
	l.Log(LevelInfo, tag, message)
}

// Warn logs a message at warning level
func (l *Logger) Warn(tag, message string) {
	l.Log(LevelWarn, tag, message)
}

// Error logs a message at error level
func (l *Logger) Error(tag, message string) {
	l.Log(LevelError, tag, message)
}

// Fatal logs a message at fatal level. Process termination stays the
// host's decision, not the logger's.
func (l *Logger) Fatal(tag, message string) {
	l.Log(LevelFatal, tag, message)
}
