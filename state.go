package picolog

import (
	"sync/atomic"
)

// State encapsulates the runtime state of the logger. Counters are atomics
// so Stats stays readable without entering the emit/flush critical section.
type State struct {
	IsInitialized  atomic.Bool
	ShutdownCalled atomic.Bool
	NotReadyLogged atomic.Bool // one-time notice for records arriving before configuration

	DroppedEntries atomic.Uint64 // records lost to eviction or pre-init emits
	DroppedData    atomic.Uint64 // measurements lost on the data channel
	TotalFlushes   atomic.Uint64 // completed flush cycles that wrote records
	FailedWrites   atomic.Uint64 // flush cycles that hit a storage write error
	TotalRotations atomic.Uint64 // successful file rotations, both streams
	TotalDeletions atomic.Uint64 // successful archive deletions, both streams
	BytesWritten   atomic.Uint64 // bytes handed to the OS, both streams
}
