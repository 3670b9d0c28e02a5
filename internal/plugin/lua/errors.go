package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrSyntax is returned when a script does not compile.
	ErrSyntax = errors.New("lua syntax error")

	// ErrRuntime is returned when a script raises an error.
	ErrRuntime = errors.New("lua runtime error")

	// ErrFunctionNotFound is returned when a called global is not a function.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrBadResult is returned when a script returns something other than
	// the expected value.
	ErrBadResult = errors.New("lua script returned an unexpected value")
)
