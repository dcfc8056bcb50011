package picolog

import "errors"

// Sentinel errors for callers that need to distinguish failure kinds.
// All are wrapped with detail at the failure site, match with errors.Is.
var (
	// ErrInvalidSizeSpec reports a malformed or non-positive size specification.
	ErrInvalidSizeSpec = errors.New("picolog: invalid size spec")

	// ErrStorageWrite reports a failed write to an active file. Records not
	// yet written remain the caller's responsibility.
	ErrStorageWrite = errors.New("picolog: storage write failed")

	// ErrStorageDelete reports a failed archive deletion during pruning.
	// Pruning failures never abort the write path.
	ErrStorageDelete = errors.New("picolog: storage delete failed")
)
