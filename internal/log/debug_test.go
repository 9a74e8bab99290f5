package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetWriter() {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	if writer.file != nil {
		_ = writer.file.Close()
	}
	writer.file = nil
	writer.buffer = nil
	writer.discard = false
}

func TestBufferedUntilFileSet(t *testing.T) {
	resetWriter()
	t.Cleanup(resetWriter)

	Printf("early message %d", 1)
	Println("another early message")

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	Printf("after file set")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "early message 1")
	assert.Contains(t, text, "another early message")
	assert.Contains(t, text, "after file set")
}

func TestEmptyPathDiscards(t *testing.T) {
	resetWriter()
	t.Cleanup(resetWriter)

	Printf("buffered then dropped")
	require.NoError(t, SetFile(""))
	Printf("dropped outright")

	writer.mu.Lock()
	defer writer.mu.Unlock()
	assert.True(t, writer.discard)
	assert.Empty(t, writer.buffer)
}

func TestSetFileOpenError(t *testing.T) {
	resetWriter()
	t.Cleanup(resetWriter)

	err := SetFile(filepath.Join(t.TempDir(), "missing", "debug.log"))
	assert.Error(t, err)

	// A failed open falls back to discarding instead of growing forever.
	Printf("goes nowhere")
	writer.mu.Lock()
	defer writer.mu.Unlock()
	assert.True(t, writer.discard)
}

func TestCloseWithoutFile(t *testing.T) {
	resetWriter()
	assert.NoError(t, Close())
}
