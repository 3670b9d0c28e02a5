package engine

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/slate/internal/engine/buffer"
	"github.com/dshills/slate/internal/engine/cursor"
)

// Formatter rewrites a whole buffer, typically by running an external
// tool. Implementations must honour ctx cancellation.
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, text string) (string, error)

// Format implements Formatter.
func (f FormatterFunc) Format(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// ApplyFormat runs f over the buffer and replaces the text with its output
// as one undo step. On any failure the buffer is left unchanged and the
// error is returned. The cursor keeps its offset, clamped to the new text,
// and the selection collapses.
func (e *Editor) ApplyFormat(ctx context.Context, f Formatter) error {
	if f == nil {
		return ErrNoFormatter
	}
	text := e.buf.Text()
	out, err := f.Format(ctx, text)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if out == "" && text != "" {
		return ErrEmptyOutput
	}
	if !utf8.ValidString(out) {
		return ErrInvalidOutput
	}

	out = buffer.NormalizeLineEndings(out)
	if out == text {
		return nil
	}
	c := e.sel.Active
	e.change("Format", buffer.Edit{Range: buffer.Range{Start: 0, End: e.buf.Len()}, NewText: out})
	e.sel = cursor.NewCursorSelection(e.buf.Boundary(c))
	return nil
}
