package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsEmptyCommand(t *testing.T) {
	s := New("   ", t.TempDir())
	assert.Error(t, s.Start(context.Background()))
}

func TestWaitWithoutStart(t *testing.T) {
	s := New("true", t.TempDir())
	assert.NoError(t, s.Wait())
}

func TestRunToCompletion(t *testing.T) {
	dir := t.TempDir()
	s := New("echo done > out.txt", dir)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Wait())

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(data))
}

func TestNonZeroExitIsAnError(t *testing.T) {
	s := New("exit 3", t.TempDir())
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Wait())
}

func TestSignalTerminationIsNotAnError(t *testing.T) {
	s := New("sleep 30", t.TempDir())
	require.NoError(t, s.Start(context.Background()))

	time.Sleep(100 * time.Millisecond)
	s.Signal(syscall.SIGTERM)

	assert.NoError(t, s.Wait())
}

func TestContextCancelStopsChild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New("sleep 30", t.TempDir())
	require.NoError(t, s.Start(ctx))

	time.Sleep(100 * time.Millisecond)
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("child did not exit after context cancellation")
	}
}

func TestSignalBeforeStartIsHarmless(t *testing.T) {
	s := New("true", t.TempDir())
	s.Signal(syscall.SIGTERM)
}
