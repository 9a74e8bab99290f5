// Package supervisor runs the static-site generator process next to the
// admin server and tears it down when the server exits.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/okjk/jekyllctl/internal/log"
)

// killGrace is how long the child gets between SIGTERM and SIGKILL.
const killGrace = 5 * time.Second

// Supervisor manages one child process.
type Supervisor struct {
	command string
	dir     string

	cmd  *exec.Cmd
	done chan error
}

// New creates a supervisor for the given shell command, run inside dir.
func New(command, dir string) *Supervisor {
	return &Supervisor{command: command, dir: dir}
}

// Start launches the child. The child gets its own process group so a
// termination signal reaches the whole pipeline the shell may spawn.
func (s *Supervisor) Start(ctx context.Context) error {
	if strings.TrimSpace(s.command) == "" {
		return fmt.Errorf("no site command configured")
	}

	// #nosec G204 -- the command comes from the user's own config
	cmd := exec.CommandContext(ctx, "bash", "-lc", s.command)
	cmd.Dir = s.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start site generator: %w", err)
	}

	log.Printf("supervisor: started %q (pid %d)", s.command, cmd.Process.Pid)

	s.cmd = cmd
	s.done = make(chan error, 1)
	go func() {
		s.done <- cmd.Wait()
	}()
	return nil
}

// Wait blocks until the child exits and reports whether it failed.
// Termination caused by our own signal forwarding is not an error.
func (s *Supervisor) Wait() error {
	if s.done == nil {
		return nil
	}
	err := <-s.done
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			log.Printf("supervisor: site generator stopped by %s", status.Signal())
			return nil
		}
	}
	return fmt.Errorf("site generator: %w", err)
}

// Signal forwards a signal to the child's process group.
func (s *Supervisor) Signal(sig os.Signal) {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}
	sysSig, ok := sig.(syscall.Signal)
	if !ok {
		sysSig = syscall.SIGTERM
	}
	_ = syscall.Kill(-s.cmd.Process.Pid, sysSig)
}
