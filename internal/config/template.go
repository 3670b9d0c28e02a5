package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// DefaultBuildCommand is the build command written by WriteProjectTemplate.
const DefaultBuildCommand = "make"

var templateOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  "}

type templateField struct {
	path  string
	value any
}

// ProjectTemplate renders p as slate.json content.
func ProjectTemplate(p Project) ([]byte, error) {
	fields := []templateField{
		{"build_command", p.BuildCommand},
		{"format_on_save", p.FormatOnSave},
		{"formatter.bin", p.Formatter.Bin},
		{"formatter.style", p.Formatter.Style},
		{"formatter.languages", nonNil(p.Formatter.Languages)},
		{"formatter.timeout", p.Formatter.Timeout.String()},
	}
	if len(p.Formatter.Args) > 0 {
		fields = append(fields, templateField{"formatter.args", p.Formatter.Args})
	}
	if p.Formatter.Script != "" {
		fields = append(fields, templateField{"formatter.script", p.Formatter.Script})
	}

	doc := []byte("{}")
	for _, f := range fields {
		var err error
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", f.path, err)
		}
	}
	return pretty.PrettyOptions(doc, templateOptions), nil
}

// WriteProjectTemplate writes a starter slate.json into dir and returns its
// path. An existing file is only replaced when force is set.
func WriteProjectTemplate(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ProjectFile)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrTemplateExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return path, err
		}
	}

	p := DefaultProject(dir)
	p.BuildCommand = DefaultBuildCommand
	data, err := ProjectTemplate(p)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("writing project template: %w", err)
	}
	return path, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
