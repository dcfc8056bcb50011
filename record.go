package picolog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// log is the emit path. Filtering happens before any encoding or console
// work so a suppressed record has zero side effects. Caller holds mu.
func (l *Logger) log(level int64, tag, msg string) {
	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		l.noteNotReady()
		l.state.DroppedEntries.Add(1)
		return
	}

	// LevelOff is a threshold, not a record severity
	if level < LevelTrace || level > LevelFatal {
		l.state.DroppedEntries.Add(1)
		return
	}

	if !l.shouldLog(level) {
		return
	}

	now := time.Now()

	// Console mirroring is synchronous and unbuffered
	if l.cfg.EnableConsole {
		line := l.ser.serializeConsole(now, level, tag, msg)
		if _, err := l.consoleWriter(level).Write(line); err != nil {
			l.internalLog("console write failed: %v\n", err)
		}
	}

	if !l.cfg.EnableFile {
		// Without file output the ring is a lossy recent-history window
		if l.ring.isFull() {
			l.ring.evictOldest()
			l.state.DroppedEntries.Add(1)
		}
		l.ring.push(record{ts: now, level: level, tag: tag, msg: msg})
		return
	}

	encoded := l.ser.serialize(l.cfg.Format, l.flags(), now, level, tag, msg)
	rec := record{
		ts:      now,
		level:   level,
		tag:     tag,
		msg:     msg,
		encoded: append([]byte(nil), encoded...),
		size:    estimateSize(encoded),
	}

	if l.ring.isFull() {
		// A full ring here means an earlier flush failed. Retry, then shed
		// the oldest record to admit the new one.
		if err := l.flushRing(); err != nil {
			l.internalLog("flush failed: %v\n", err)
		}
		if l.ring.isFull() {
			l.ring.evictOldest()
			l.state.DroppedEntries.Add(1)
		}
	}
	l.ring.push(rec)

	if l.ring.isFull() || l.shouldFlush(level) {
		if err := l.flushRing(); err != nil {
			l.internalLog("flush failed: %v\n", err)
		}
	}
}

// shouldLog reports whether a severity passes the configured level after
// the storage-pressure floor is applied.
func (l *Logger) shouldLog(level int64) bool {
	threshold := l.cfg.Level
	if l.modeFloor > threshold {
		threshold = l.modeFloor
	}
	return level >= threshold
}

// shouldFlush reports whether a severity forces a synchronous flush
// before the emit call returns.
func (l *Logger) shouldFlush(level int64) bool {
	return level >= l.cfg.FlushLevel
}

// flushRing drains the log ring into the store as one write call. An
// empty ring performs no write and changes no state. A failed batch is
// re-buffered in arrival order. Caller holds mu.
func (l *Logger) flushRing() error {
	if !l.cfg.EnableFile || l.store == nil {
		return nil
	}
	if l.ring == nil || l.ring.isEmpty() {
		return nil
	}

	batch := l.ring.drain(l.scratch[:0])
	l.scratch = batch[:0]

	written, err := l.store.write(batch)
	if err != nil {
		l.state.FailedWrites.Add(1)
		for _, rec := range batch[written:] {
			if !l.ring.push(rec) {
				l.state.DroppedEntries.Add(1)
			}
		}
		return err
	}

	l.state.TotalFlushes.Add(1)
	return nil
}

// flags derives record flags from config
func (l *Logger) flags() int64 {
	var flags int64
	if l.cfg.ShowTimestamp {
		flags |= FlagShowTimestamp
	}
	if l.cfg.ShowLevel {
		flags |= FlagShowLevel
	}
	return flags
}

// consoleWriter selects the console destination for a severity.
func (l *Logger) consoleWriter(level int64) io.Writer {
	switch l.cfg.ConsoleTarget {
	case "stderr":
		return l.consoleErr
	case "split":
		if level >= LevelWarn {
			return l.consoleErr
		}
		return l.consoleOut
	default:
		return l.consoleOut
	}
}

// noteNotReady prints a one-time notice for records arriving before
// configuration.
func (l *Logger) noteNotReady() {
	if l.state.NotReadyLogged.CompareAndSwap(false, true) {
		l.internalLog("logger not initialized, records are dropped\n")
	}
}

// internalLog writes logger diagnostics to stderr when enabled. The
// logger never logs through itself.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.cfg.InternalErrorsToStderr {
		return
	}
	if !strings.HasPrefix(format, "picolog: ") {
		format = "picolog: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
