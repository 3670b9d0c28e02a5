package engine

import (
	"errors"

	"github.com/dshills/slate/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrNoFormatter indicates ApplyFormat was called without a formatter.
	ErrNoFormatter = errors.New("no formatter configured")

	// ErrEmptyOutput indicates a formatter produced no output for a
	// non-empty buffer.
	ErrEmptyOutput = errors.New("formatter produced empty output")

	// ErrInvalidOutput indicates a formatter produced invalid UTF-8.
	ErrInvalidOutput = errors.New("formatter produced invalid UTF-8")
)
