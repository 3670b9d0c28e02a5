package process

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Shell is the interpreter used by RunShell.
const Shell = "/bin/sh"

// Supervisor tracks background commands started by the editor.
//
// Commands are fire-and-forget: Start returns once the command runs and the
// optional exit callback reports how it ended. Shutdown terminates whatever
// is still running. Supervisor is safe for concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process
	wg        sync.WaitGroup

	// closed indicates the supervisor has been shut down
	closed atomic.Bool

	// maxProcesses limits the number of concurrent processes (0 = unlimited)
	maxProcesses int

	// onProcessExit is called when a process exits
	onProcessExit func(p *Process)
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithMaxProcesses sets the maximum number of concurrent processes.
// A value of 0 (default) means unlimited.
func WithMaxProcesses(max int) SupervisorOption {
	return func(s *Supervisor) {
		s.maxProcesses = max
	}
}

// WithProcessExitCallback sets a callback invoked, from a background
// goroutine, after a process exits.
func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onProcessExit = fn
	}
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunShell starts command with "/bin/sh -c" in dir. An empty dir uses the
// current directory.
func (s *Supervisor) RunShell(name, command, dir string) (*Process, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	cmd := exec.Command(Shell, "-c", command)
	cmd.Dir = dir
	return s.Start(name, cmd)
}

// Start starts cmd under a fresh random ID. Unless the caller redirected
// them, stdout and stderr are captured and stdin reads from the null device.
//
// Returns ErrSupervisorShutdown if the supervisor is shutting down.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	return s.StartWithID(uuid.NewString(), name, cmd)
}

// StartWithID starts cmd under a caller-chosen ID.
func (s *Supervisor) StartWithID(id, name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}
	if s.maxProcesses > 0 && len(s.processes) >= s.maxProcesses {
		return nil, fmt.Errorf("%w: %d", ErrProcessLimit, s.maxProcesses)
	}
	if _, exists := s.processes[id]; exists {
		return nil, fmt.Errorf("process ID already exists: %s", id)
	}

	proc := newProcess(id, name, cmd)
	if err := proc.start(); err != nil {
		return nil, err
	}

	s.processes[id] = proc
	s.wg.Add(1)
	go s.monitorProcess(proc)

	return proc, nil
}

// monitorProcess waits for proc to exit, reports it and stops tracking it.
func (s *Supervisor) monitorProcess(proc *Process) {
	defer s.wg.Done()
	<-proc.Done()

	if s.onProcessExit != nil {
		func() {
			// A failing callback must not take the supervisor down.
			defer func() { _ = recover() }()
			s.onProcessExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	s.mu.Unlock()
}

// Get returns a process by ID, or nil if it is not running.
func (s *Supervisor) Get(id string) *Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[id]
}

// List returns all running processes.
func (s *Supervisor) List() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		result = append(result, p)
	}
	return result
}

// Count returns the number of running processes.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Kill kills a process by ID.
// Returns ErrProcessNotFound if the process doesn't exist.
func (s *Supervisor) Kill(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Kill()
}

// Shutdown sends SIGTERM to every running process, waits up to timeout for
// them to exit and kills the rest. It blocks until every process has been
// reaped. Later calls return immediately.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	procs := s.List()
	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-done
	}
}

// IsShuttingDown returns true once Shutdown has been called.
func (s *Supervisor) IsShuttingDown() bool {
	return s.closed.Load()
}

// Wait blocks until every started process has exited and been reported.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
