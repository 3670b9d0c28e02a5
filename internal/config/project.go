package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/slate/internal/integration/process"
)

// ProjectFile is the project configuration file name.
const ProjectFile = "slate.json"

// Project is the per-project configuration read from slate.json.
type Project struct {
	// Path is the slate.json file the project was read from.
	Path string

	// Dir is the directory holding Path. Build commands run there.
	Dir string

	// BuildCommand is run with /bin/sh -c. Empty disables building.
	BuildCommand string

	// FormatOnSave formats the buffer before every save.
	FormatOnSave bool

	Formatter FormatterSettings
}

// FormatterSettings selects the external formatter.
type FormatterSettings struct {
	// Bin is the formatter executable.
	Bin string

	// Style is passed as --style when Args is empty.
	Style string

	// Args replaces the generated clang-format arguments when set.
	Args []string

	// Languages lists the languages the formatter runs for.
	Languages []string

	// Script is a Lua formatting script. When set it is used instead of Bin.
	Script string

	// Timeout bounds one formatter run.
	Timeout time.Duration
}

// DefaultProject returns the configuration used when dir holds no
// slate.json.
func DefaultProject(dir string) Project {
	return Project{
		Path: filepath.Join(dir, ProjectFile),
		Dir:  dir,
		Formatter: FormatterSettings{
			Bin:       process.DefaultFormatterBin,
			Style:     process.DefaultFormatterStyle,
			Languages: []string{"C", "C++"},
			Timeout:   process.DefaultFormatterTimeout,
		},
	}
}

// FindProject searches start and its parents for slate.json and returns
// the first directory holding one. ok is false when none is found.
func FindProject(start string) (dir string, ok bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadProject reads the project configuration. path may name slate.json
// itself or the directory holding it.
//
// Whatever goes wrong, the returned Project is usable: a missing file
// yields the defaults and an error matching ErrFileNotFound, invalid JSON
// yields the defaults and a *ParseError, and fields of the wrong type keep
// their defaults and are reported with errors matching ErrInvalidConfig.
func LoadProject(path string) (Project, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ProjectFile)
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	p := DefaultProject(filepath.Dir(path))
	p.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return p, fmt.Errorf("reading project config %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return p, &ParseError{Path: path, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return p, &ParseError{Path: path, Message: "top level value must be an object"}
	}
	return p, p.apply(root)
}

// apply copies the fields present in root onto p.
func (p *Project) apply(root gjson.Result) error {
	var errs []error
	reject := func(field string, v gjson.Result, reason string) {
		errs = append(errs, &FieldError{Field: field, Value: v.Raw, Reason: reason})
	}

	if v := root.Get("build_command"); v.Exists() {
		if v.Type == gjson.String {
			p.BuildCommand = v.String()
		} else {
			reject("build_command", v, "must be a string")
		}
	}
	if v := root.Get("format_on_save"); v.Exists() {
		if v.IsBool() {
			p.FormatOnSave = v.Bool()
		} else {
			reject("format_on_save", v, "must be a boolean")
		}
	}

	f := root.Get("formatter")
	if !f.Exists() {
		return errors.Join(errs...)
	}
	if !f.IsObject() {
		reject("formatter", f, "must be an object")
		return errors.Join(errs...)
	}
	if v := f.Get("bin"); v.Exists() {
		if v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			p.Formatter.Bin = v.String()
		} else {
			reject("formatter.bin", v, "must be a non-empty string")
		}
	}
	if v := f.Get("style"); v.Exists() {
		if v.Type == gjson.String {
			p.Formatter.Style = v.String()
		} else {
			reject("formatter.style", v, "must be a string")
		}
	}
	if v := f.Get("args"); v.Exists() {
		if args, ok := stringArray(v); ok {
			p.Formatter.Args = args
		} else {
			reject("formatter.args", v, "must be an array of strings")
		}
	}
	if v := f.Get("languages"); v.Exists() {
		if langs, ok := stringArray(v); ok {
			p.Formatter.Languages = langs
		} else {
			reject("formatter.languages", v, "must be an array of strings")
		}
	}
	if v := f.Get("script"); v.Exists() {
		if v.Type == gjson.String {
			p.Formatter.Script = v.String()
		} else {
			reject("formatter.script", v, "must be a string")
		}
	}
	if v := f.Get("timeout"); v.Exists() {
		if d, ok := parseTimeout(v); ok {
			p.Formatter.Timeout = d
		} else {
			reject("formatter.timeout", v, `must be a positive number of seconds or a duration such as "5s"`)
		}
	}

	return errors.Join(errs...)
}

func stringArray(v gjson.Result) ([]string, bool) {
	if !v.IsArray() {
		return nil, false
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, false
		}
		out = append(out, item.String())
	}
	return out, true
}

func parseTimeout(v gjson.Result) (time.Duration, bool) {
	var d time.Duration
	switch v.Type {
	case gjson.Number:
		d = time.Duration(v.Float() * float64(time.Second))
	case gjson.String:
		var err error
		if d, err = time.ParseDuration(v.String()); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	return d, d > 0
}

// FormatsLanguage reports whether the formatter is configured for the
// language. Names compare case-insensitively.
func (f FormatterSettings) FormatsLanguage(language string) bool {
	for _, l := range f.Languages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

// CommandArgs returns the arguments for formatting filename: Args when
// set, otherwise the clang-format style and file name flags.
func (f FormatterSettings) CommandArgs(filename string) []string {
	if len(f.Args) > 0 {
		return append([]string(nil), f.Args...)
	}
	return process.ClangFormatArgs(f.Style, filename)
}

// ScriptPath returns the formatter script resolved against the project
// directory, or "" when no script is configured.
func (p Project) ScriptPath() string {
	if p.Formatter.Script == "" {
		return ""
	}
	if filepath.IsAbs(p.Formatter.Script) {
		return p.Formatter.Script
	}
	return filepath.Join(p.Dir, p.Formatter.Script)
}

// HasBuild reports whether a build command is configured.
func (p Project) HasBuild() bool {
	return strings.TrimSpace(p.BuildCommand) != ""
}
