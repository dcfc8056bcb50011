package picolog

import (
	"fmt"
	"time"
)

// record is a single log entry staged for storage. The storage form and
// its size estimate are produced once at creation and never change.
type record struct {
	ts      time.Time
	level   int64
	tag     string
	msg     string
	encoded []byte
	size    int64
}

// Stats is a point-in-time snapshot of logger counters.
type Stats struct {
	Buffered     int // records staged in RAM
	DataBuffered int // measurements staged in RAM

	Dropped      uint64 // records lost to eviction or pre-init emits
	DroppedData  uint64
	Flushes      uint64
	FailedWrites uint64
	Rotations    uint64
	Deletions    uint64
	BytesWritten uint64

	ActiveSize     int64 // estimated bytes in the active log file
	DataActiveSize int64

	Level int64  // effective minimum severity
	Mode  string // storage-pressure mode
}

// String renders the snapshot as a single log-friendly line.
func (s Stats) String() string {
	return fmt.Sprintf("buffered=%d data_buffered=%d dropped=%d dropped_data=%d flushes=%d failed_writes=%d rotations=%d deletions=%d bytes_written=%d active_size=%d data_active_size=%d level=%s mode=%s",
		s.Buffered, s.DataBuffered, s.Dropped, s.DroppedData, s.Flushes, s.FailedWrites,
		s.Rotations, s.Deletions, s.BytesWritten, s.ActiveSize, s.DataActiveSize,
		levelToString(s.Level), s.Mode)
}
