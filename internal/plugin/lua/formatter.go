package lua

import (
	"context"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// FormatFunc is the global a formatting script must define:
//
//	function format(text, info)
//	  -- info.filename, info.language, info.indent_width
//	  return text            -- or: return nil, "message"
//	end
const FormatFunc = "format"

// FileInfo describes the buffer handed to a formatting script.
type FileInfo struct {
	Filename    string
	Language    string
	IndentWidth int
}

// ScriptFormatter formats text with a Lua script. Every call runs in a
// fresh state, so scripts cannot keep state between calls.
type ScriptFormatter struct {
	name   string
	source string
	info   FileInfo
	opts   []StateOption
}

// NewScriptFormatter creates a formatter from the script source. name is
// used in error messages.
func NewScriptFormatter(name, source string, info FileInfo, opts ...StateOption) *ScriptFormatter {
	return &ScriptFormatter{name: name, source: source, info: info, opts: opts}
}

// LoadScriptFormatter reads the script at path and checks that it compiles
// and defines a format function.
func LoadScriptFormatter(path string, info FileInfo, opts ...StateOption) (*ScriptFormatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read formatter script: %w", err)
	}
	f := NewScriptFormatter(path, string(data), info, opts...)
	if err := f.Check(context.Background()); err != nil {
		return nil, err
	}
	return f, nil
}

// WithInfo returns a copy of f formatting the described buffer.
func (f *ScriptFormatter) WithInfo(info FileInfo) *ScriptFormatter {
	c := *f
	c.info = info
	return &c
}

// Check runs the script's top level and verifies the format function
// exists.
func (f *ScriptFormatter) Check(ctx context.Context) error {
	s, err := f.load(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if s.L.GetGlobal(FormatFunc).Type() != lua.LTFunction {
		return fmt.Errorf("%s: %w: %s", f.name, ErrFunctionNotFound, FormatFunc)
	}
	return nil
}

// Format implements the editor's formatter interface.
func (f *ScriptFormatter) Format(ctx context.Context, text string) (string, error) {
	s, err := f.load(ctx)
	if err != nil {
		return "", err
	}
	defer s.Close()

	info := s.L.NewTable()
	s.L.SetField(info, "filename", lua.LString(f.info.Filename))
	s.L.SetField(info, "language", lua.LString(f.info.Language))
	s.L.SetField(info, "indent_width", lua.LNumber(f.info.IndentWidth))

	results, err := s.Call(ctx, FormatFunc, lua.LString(text), info)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.name, err)
	}
	return f.result(results)
}

// result interprets the values returned by format.
func (f *ScriptFormatter) result(results []lua.LValue) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("%s: %w: nothing returned", f.name, ErrBadResult)
	}
	switch v := results[0].(type) {
	case lua.LString:
		return string(v), nil
	case *lua.LNilType:
		msg := "format failed"
		if len(results) > 1 && results[1] != lua.LNil {
			msg = results[1].String()
		}
		return "", fmt.Errorf("%s: %w: %s", f.name, ErrRuntime, msg)
	default:
		return "", fmt.Errorf("%s: %w: %s", f.name, ErrBadResult, results[0].Type())
	}
}

func (f *ScriptFormatter) load(ctx context.Context) (*State, error) {
	s := NewState(f.opts...)
	s.RegisterModule("slate", helperFuncs)
	if err := s.DoString(ctx, f.name, f.source); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return s, nil
}
