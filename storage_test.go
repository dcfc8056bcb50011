package picolog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fileStore with quiet diagnostics
func newTestStore(t *testing.T, dir string, maxBytes, retain int64) (*fileStore, *State) {
	t.Helper()
	state := &State{}
	fs, err := openFileStore(dir, "pico", "log", maxBytes, retain, state, func(string, ...any) {})
	require.NoError(t, err)
	return fs, state
}

// sizedRecord builds a record whose encoded form and size estimate are
// exactly n bytes
func sizedRecord(n int) record {
	encoded := bytes.Repeat([]byte("a"), n-1)
	encoded = append(encoded, '\n')
	return record{
		level:   LevelInfo,
		msg:     "sized",
		encoded: encoded,
		size:    estimateSize(encoded),
	}
}

// TestStoreCreatesDirectory verifies nested log directories are created on open
func TestStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	fs, _ := newTestStore(t, dir, 1000, 3)
	defer fs.close()

	_, err := os.Stat(filepath.Join(dir, "pico.log"))
	assert.NoError(t, err)
}

// TestStoreWrite verifies records are appended and sized
func TestStoreWrite(t *testing.T) {
	fs, state := newTestStore(t, t.TempDir(), 100000, 3)
	defer fs.close()

	written, err := fs.write([]record{sizedRecord(50), sizedRecord(60)})
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, int64(110), fs.activeSize())
	assert.Equal(t, uint64(110), state.BytesWritten.Load())

	// An empty batch writes nothing and changes nothing
	written, err = fs.write(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, int64(110), fs.activeSize())
}

// TestRotationBoundary verifies the pre-write size check: with a 100 byte
// limit, three 45 byte records cause exactly one rotation and the third
// record starts the fresh active file
func TestRotationBoundary(t *testing.T) {
	dir := t.TempDir()
	fs, state := newTestStore(t, dir, 100, 3)
	defer fs.close()

	batch := []record{sizedRecord(45), sizedRecord(45), sizedRecord(45)}
	written, err := fs.write(batch)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	assert.Equal(t, uint64(1), state.TotalRotations.Load())
	assert.Equal(t, int64(45), fs.activeSize())

	archived, err := os.ReadFile(filepath.Join(dir, "pico_00001.log"))
	require.NoError(t, err)
	assert.Len(t, archived, 90)

	active, err := os.ReadFile(filepath.Join(dir, "pico.log"))
	require.NoError(t, err)
	assert.Len(t, active, 45)
}

// TestOversizedRecord verifies a record larger than the file limit is
// written whole into an empty active file and rotates at most once
func TestOversizedRecord(t *testing.T) {
	dir := t.TempDir()
	fs, state := newTestStore(t, dir, 100, 3)
	defer fs.close()

	// Fresh active file: the oversized record goes in without rotating
	written, err := fs.write([]record{sizedRecord(250)})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, uint64(0), state.TotalRotations.Load())
	assert.Equal(t, int64(250), fs.activeSize())

	// The next record rotates the oversized file out, once
	written, err = fs.write([]record{sizedRecord(45)})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, uint64(1), state.TotalRotations.Load())
	assert.Equal(t, int64(45), fs.activeSize())

	// The oversized record was never split
	archived, err := os.ReadFile(filepath.Join(dir, "pico_00001.log"))
	require.NoError(t, err)
	assert.Len(t, archived, 250)
}

// TestArchivePruning verifies at most retain archives survive and the
// oldest indexes go first
func TestArchivePruning(t *testing.T) {
	dir := t.TempDir()
	fs, state := newTestStore(t, dir, 100, 3)
	defer fs.close()

	// Every second record after the first pair forces a rotation
	for i := 0; i < 12; i++ {
		_, err := fs.write([]record{sizedRecord(45)})
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(5), state.TotalRotations.Load())
	assert.Equal(t, uint64(2), state.TotalDeletions.Load())
	assert.Equal(t, 3, fs.archiveCount())

	// Never more than retain+1 log files on disk
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	assert.Len(t, names, 4)
	assert.Contains(t, names, "pico.log")
	assert.Contains(t, names, "pico_00003.log")
	assert.Contains(t, names, "pico_00004.log")
	assert.Contains(t, names, "pico_00005.log")
}

// TestStartupRecovery verifies a reopened store resumes the active size
// and continues the archive numbering instead of clobbering history
func TestStartupRecovery(t *testing.T) {
	dir := t.TempDir()

	fs, _ := newTestStore(t, dir, 100, 5)
	for i := 0; i < 5; i++ {
		_, err := fs.write([]record{sizedRecord(45)})
		require.NoError(t, err)
	}
	// Two archives exist, the active file holds one record
	assert.Equal(t, int64(45), fs.activeSize())
	require.NoError(t, fs.close())

	reopened, state := newTestStore(t, dir, 100, 5)
	defer reopened.close()
	assert.Equal(t, int64(45), reopened.activeSize())
	assert.Equal(t, int64(2), reopened.lastIndex)

	// The next rotation picks the next free index
	for i := 0; i < 2; i++ {
		_, err := reopened.write([]record{sizedRecord(45)})
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(1), state.TotalRotations.Load())
	_, err := os.Stat(filepath.Join(dir, "pico_00003.log"))
	assert.NoError(t, err)
}

// TestWriteFailure verifies a failing write reports the fully written
// count and wraps the storage sentinel
func TestWriteFailure(t *testing.T) {
	fs, _ := newTestStore(t, t.TempDir(), 100000, 3)
	defer fs.close()

	_, err := fs.write([]record{sizedRecord(45)})
	require.NoError(t, err)

	// Force the next write to fail
	require.NoError(t, fs.file.Close())

	written, err := fs.write([]record{sizedRecord(45), sizedRecord(45)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageWrite))
	assert.Equal(t, 0, written)
}

// TestArchiveNaming covers index formatting and parsing round trips
func TestArchiveNaming(t *testing.T) {
	fs, _ := newTestStore(t, t.TempDir(), 1000, 3)
	defer fs.close()

	assert.Equal(t, "pico_00007.log", filepath.Base(fs.archiveName(7)))
	assert.Equal(t, "pico_12345.log", filepath.Base(fs.archiveName(12345)))

	tests := []struct {
		filename string
		index    int64
		ok       bool
	}{
		{"pico_00001.log", 1, true},
		{"pico_00042.log", 42, true},
		{"pico_123456.log", 123456, true},
		{"pico.log", 0, false},
		{"pico_.log", 0, false},
		{"pico_abc.log", 0, false},
		{"pico_00001.txt", 0, false},
		{"other_00001.log", 0, false},
		{"pico_data_00001.csv", 0, false},
	}
	for _, tt := range tests {
		index, ok := fs.parseArchiveIndex(tt.filename)
		assert.Equal(t, tt.ok, ok, "filename: %s", tt.filename)
		if tt.ok {
			assert.Equal(t, tt.index, index, "filename: %s", tt.filename)
		}
	}
}

// TestLogRotationThroughLogger verifies rotation end to end via the facade
func TestLogRotationThroughLogger(t *testing.T) {
	tmpDir := t.TempDir()
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.BufferSize = 4
	cfg.MaxFileSize = "1kb"
	cfg.MaxRotations = 2
	require.NoError(t, logger.ApplyConfig(cfg))
	defer logger.Shutdown()

	// Each message is ~120 bytes encoded, enough volume rotates several times
	payload := strings.Repeat("x", 100)
	for i := 0; i < 60; i++ {
		logger.Info("rotate", fmt.Sprintf("%03d %s", i, payload))
	}
	require.NoError(t, logger.Flush())

	st := logger.Stats()
	assert.Greater(t, st.Rotations, uint64(0))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	logFiles := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".log") {
			logFiles++
		}
	}
	// Active plus at most two retained archives
	assert.GreaterOrEqual(t, logFiles, 2)
	assert.LessOrEqual(t, logFiles, 3)
}
