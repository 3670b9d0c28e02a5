package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Formatter defaults.
const (
	DefaultFormatterBin     = "clang-format"
	DefaultFormatterStyle   = "Mozilla"
	DefaultFormatterTimeout = 10 * time.Second
)

// CommandFormatter formats text by piping it through an external tool and
// reading the result from its stdout.
type CommandFormatter struct {
	Bin     string
	Args    []string
	Timeout time.Duration // 0 means no limit beyond the caller's context
}

// NewCommandFormatter creates a formatter running bin with args. A blank
// bin selects clang-format.
func NewCommandFormatter(bin string, args []string, timeout time.Duration) *CommandFormatter {
	if strings.TrimSpace(bin) == "" {
		bin = DefaultFormatterBin
	}
	return &CommandFormatter{Bin: bin, Args: args, Timeout: timeout}
}

// ClangFormatArgs returns the clang-format arguments for style. The
// assumed file name lets clang-format pick the language and any
// .clang-format file next to it.
func ClangFormatArgs(style, filename string) []string {
	if style == "" {
		style = DefaultFormatterStyle
	}
	args := []string{"--style=" + style}
	if filename != "" {
		args = append(args, "--assume-filename="+filename)
	}
	return args
}

// Format runs the tool with text on stdin. It fails with ErrToolNotFound
// when the binary is missing, a *ToolError matching ErrToolFailed on a
// non-zero exit, and the context error on timeout or cancellation.
func (f *CommandFormatter) Format(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(f.Bin) == "" {
		return "", ErrEmptyCommand
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Bin, f.Args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%s: %w", f.Bin, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return "", fmt.Errorf("%s: %w", f.Bin, ErrToolNotFound)
		case errors.As(err, &exitErr):
			return "", &ToolError{Tool: f.Bin, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		default:
			return "", fmt.Errorf("run %s: %w", f.Bin, err)
		}
	}
	return stdout.String(), nil
}
