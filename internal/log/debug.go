// Package log provides debug logging to an optional file. Messages emitted
// before a file is configured are buffered so early startup output is not
// lost; configuring an empty path discards everything.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter implements io.Writer so it can back a standard log.Logger.
type debugWriter struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	writer    = &debugWriter{}
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

func (w *debugWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.discard {
		return len(p), nil
	}

	if w.file != nil {
		n, err = w.file.Write(p)
		// Sync so messages survive a crash; sync errors are not critical here.
		_ = w.file.Sync()
		return n, err
	}

	b := make([]byte, len(p))
	copy(b, p)
	w.buffer = append(w.buffer, b...)
	return len(p), nil
}

// SetFile directs debug output to path, flushing anything buffered so far.
// An empty path discards buffered and future output.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		writer.discard = true
		writer.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		writer.discard = true
		writer.buffer = nil
		return err
	}

	writer.file = f
	writer.discard = false

	if len(writer.buffer) > 0 {
		_, _ = f.Write(writer.buffer)
		_ = f.Sync()
		writer.buffer = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}

	err := writer.file.Close()
	writer.file = nil
	return err
}
