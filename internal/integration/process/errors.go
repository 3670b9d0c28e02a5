package process

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for process package.
var (
	// ErrProcessNotFound is returned when a process ID is not found.
	ErrProcessNotFound = errors.New("process not found")

	// ErrProcessNotStarted is returned when operations require a running process.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrProcessAlreadyStarted is returned when trying to start a process twice.
	ErrProcessAlreadyStarted = errors.New("process already started")

	// ErrSupervisorShutdown is returned when the supervisor is shutting down.
	ErrSupervisorShutdown = errors.New("supervisor is shutting down")

	// ErrProcessLimit is returned when the supervisor runs its maximum
	// number of processes.
	ErrProcessLimit = errors.New("process limit reached")

	// ErrEmptyCommand is returned for a blank command line or binary.
	ErrEmptyCommand = errors.New("empty command")

	// ErrToolNotFound is returned when an external tool is not installed.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolFailed is returned when an external tool exits unsuccessfully.
	ErrToolFailed = errors.New("tool failed")
)

// ToolError describes an external tool that exited with a non-zero status.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + firstLine(s)
	}
	return msg
}

// Is reports whether target is ErrToolFailed.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
