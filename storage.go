package picolog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// fileStore owns the on-disk file set for one record stream: a static
// active file plus indexed archives produced by rotation. Archive indexes
// are zero-padded and monotonically increasing, so they order totally
// across restarts. All methods assume the owning logger serializes access.
type fileStore struct {
	dir      string
	name     string
	ext      string
	maxBytes int64
	retain   int64 // archives kept beyond the active file

	file      *os.File
	size      int64 // estimated bytes in the active file
	lastIndex int64 // highest archive index in use

	state *State
	diag  func(format string, args ...any)
}

// openFileStore opens the active file in append mode and reconstructs
// rotation state from the directory contents: the active file size comes
// from stat, the archive index from a directory scan.
func openFileStore(dir, name, ext string, maxBytes, retain int64, state *State, diag func(string, ...any)) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	fs := &fileStore{
		dir:      dir,
		name:     name,
		ext:      ext,
		maxBytes: maxBytes,
		retain:   retain,
		state:    state,
		diag:     diag,
	}

	fs.lastIndex = fs.scanLastIndex()

	file, err := fs.openActive()
	if err != nil {
		return nil, err
	}
	fs.file = file
	if fi, errStat := file.Stat(); errStat == nil {
		fs.size = fi.Size()
	}
	return fs, nil
}

// write appends a batch of records, rotating before any record that would
// push the active file past its size budget. Returns the number of records
// fully written; on error the rest stay with the caller.
func (fs *fileStore) write(records []record) (int, error) {
	if fs.file == nil {
		file, err := fs.openActive()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}
		fs.file = file
		fs.size = 0
		if fi, errStat := file.Stat(); errStat == nil {
			fs.size = fi.Size()
		}
	}

	for i := range records {
		rec := &records[i]
		if fs.size > 0 && fs.size+rec.size > fs.maxBytes {
			if err := fs.rotate(); err != nil {
				return i, err
			}
		}
		n, err := fs.file.Write(rec.encoded)
		if err != nil {
			fs.size += int64(n)
			return i, fmt.Errorf("%w: '%s': %v", ErrStorageWrite, fs.activePath(), err)
		}
		fs.size += rec.size
		fs.state.BytesWritten.Add(uint64(n))
	}
	return len(records), nil
}

// rotate archives the active file under the next index, opens a fresh one,
// then prunes archives beyond the retention count.
func (fs *fileStore) rotate() error {
	if fs.file != nil {
		if err := fs.file.Close(); err != nil {
			fs.diag("failed to close '%s' before rotation: %v\n", fs.activePath(), err)
		}
		fs.file = nil
	}

	currentPath := fs.activePath()
	archivePath := filepath.Join(fs.dir, fs.archiveName(fs.lastIndex+1))

	if err := os.Rename(currentPath, archivePath); err != nil {
		// Keep writing into the oversized active file
		fs.diag("failed to rename '%s' to '%s': %v\n", currentPath, archivePath, err)
		file, errOpen := fs.openActive()
		if errOpen != nil {
			return fmt.Errorf("%w: %v", ErrStorageWrite, errOpen)
		}
		fs.file = file
		return nil
	}
	fs.lastIndex++

	file, err := fs.openActive()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	fs.file = file
	fs.size = 0
	fs.state.TotalRotations.Add(1)

	fs.prune()
	return nil
}

// prune deletes the lowest-index archives until at most retain remain.
// Failures are reported and counted, never fatal.
func (fs *fileStore) prune() {
	indexes := fs.archiveIndexes()
	excess := int64(len(indexes)) - fs.retain
	for i := int64(0); i < excess; i++ {
		path := filepath.Join(fs.dir, fs.archiveName(indexes[i]))
		if err := os.Remove(path); err != nil {
			fs.diag("%v\n", fmt.Errorf("%w: '%s': %v", ErrStorageDelete, path, err))
			continue
		}
		fs.state.TotalDeletions.Add(1)
	}
}

// sync flushes OS buffers for the active file.
func (fs *fileStore) sync() error {
	if fs.file == nil {
		return nil
	}
	if err := fs.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", fs.activePath(), err)
	}
	return nil
}

// close syncs and closes the active file.
func (fs *fileStore) close() error {
	if fs.file == nil {
		return nil
	}
	var finalErr error
	if err := fs.file.Sync(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s' during shutdown: %w", fs.activePath(), err))
	}
	if err := fs.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s' during shutdown: %w", fs.activePath(), err))
	}
	fs.file = nil
	return finalErr
}

// activeSize returns the estimated byte count of the active file.
func (fs *fileStore) activeSize() int64 {
	return fs.size
}

// archiveCount returns the number of archives currently on disk.
func (fs *fileStore) archiveCount() int {
	return len(fs.archiveIndexes())
}

// activePath returns the full path of the static active file.
func (fs *fileStore) activePath() string {
	filename := fs.name
	if fs.ext != "" {
		filename = fs.name + "." + fs.ext
	}
	return filepath.Join(fs.dir, filename)
}

// openActive opens the active file in append mode, creating it if missing.
func (fs *fileStore) openActive() (*os.File, error) {
	path := fs.activePath()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}
	return file, nil
}

// archiveName formats the archive filename for an index, zero-padded so
// lexical and numeric order agree.
func (fs *fileStore) archiveName(index int64) string {
	if fs.ext != "" {
		return fmt.Sprintf("%s_%0*d.%s", fs.name, archiveIndexWidth, index, fs.ext)
	}
	return fmt.Sprintf("%s_%0*d", fs.name, archiveIndexWidth, index)
}

// parseArchiveIndex extracts the rotation index from an archive filename.
// Returns false for the active file and any name not produced by rotation.
func (fs *fileStore) parseArchiveIndex(filename string) (int64, bool) {
	prefix := fs.name + "_"
	suffix := ""
	if fs.ext != "" {
		suffix = "." + fs.ext
	}
	if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, suffix) {
		return 0, false
	}
	numPart := filename[len(prefix) : len(filename)-len(suffix)]
	if numPart == "" {
		return 0, false
	}
	for i := 0; i < len(numPart); i++ {
		if numPart[i] < '0' || numPart[i] > '9' {
			return 0, false
		}
	}
	index, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, false
	}
	return index, true
}

// scanLastIndex recovers the highest archive index from the directory.
func (fs *fileStore) scanLastIndex() int64 {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return 0
	}
	var last int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if index, ok := fs.parseArchiveIndex(entry.Name()); ok && index > last {
			last = index
		}
	}
	return last
}

// archiveIndexes returns the indexes of all archives on disk, ascending.
func (fs *fileStore) archiveIndexes() []int64 {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil
	}
	var indexes []int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if index, ok := fs.parseArchiveIndex(entry.Name()); ok {
			indexes = append(indexes, index)
		}
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })
	return indexes
}
