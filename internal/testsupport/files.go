package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteRecordingFile creates a placeholder recording of the given size
// so access checks and the pipeline feeder have a real file to open.
// A size <= 0 writes a single byte.
func WriteRecordingFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
