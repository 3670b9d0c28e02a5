// Package process runs the external tools the editor depends on.
//
// # Supervisor
//
// The Supervisor starts fire-and-forget commands such as the project build
// and tracks them until they exit:
//
//	s := process.NewSupervisor(process.WithProcessExitCallback(func(p *process.Process) {
//	    log.Printf("%s exited with %d", p.Name, p.ExitCode())
//	}))
//	defer s.Shutdown(5 * time.Second)
//
//	proc, err := s.RunShell("build", "make", projectDir)
//
// Each Process gets a random ID and keeps the tail of its combined output.
//
// # Formatter
//
// CommandFormatter pipes a buffer through a formatting tool, clang-format by
// default, and returns its stdout. Missing tools, non-zero exits and
// timeouts are reported as errors so the caller can leave the buffer
// untouched.
//
// # Thread Safety
//
// Supervisor and Process are safe for concurrent use.
package process
