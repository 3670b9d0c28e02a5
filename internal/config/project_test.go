package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func TestDefaultProject(t *testing.T) {
	p := DefaultProject("/work")

	want := Project{
		Path: filepath.Join("/work", ProjectFile),
		Dir:  "/work",
		Formatter: FormatterSettings{
			Bin:       "clang-format",
			Style:     "Mozilla",
			Languages: []string{"C", "C++"},
			Timeout:   10 * time.Second,
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("DefaultProject mismatch (-want +got):\n%s", diff)
	}
	if p.HasBuild() {
		t.Error("default project should have no build command")
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFile, `{
  "build_command": "make -j4",
  "format_on_save": true,
  "formatter": {
    "bin": "/usr/bin/clang-format-18",
    "style": "LLVM",
    "args": ["-i"],
    "languages": ["C", "C++", "Objective-C"],
    "script": "tools/fmt.lua",
    "timeout": "3s"
  }
}`)

	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}

	want := Project{
		Path:         filepath.Join(dir, ProjectFile),
		Dir:          dir,
		BuildCommand: "make -j4",
		FormatOnSave: true,
		Formatter: FormatterSettings{
			Bin:       "/usr/bin/clang-format-18",
			Style:     "LLVM",
			Args:      []string{"-i"},
			Languages: []string{"C", "C++", "Objective-C"},
			Script:    "tools/fmt.lua",
			Timeout:   3 * time.Second,
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("LoadProject mismatch (-want +got):\n%s", diff)
	}
	if got, want := p.ScriptPath(), filepath.Join(dir, "tools", "fmt.lua"); got != want {
		t.Errorf("ScriptPath() = %q, want %q", got, want)
	}
}

func TestLoadProject_FilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ProjectFile, `{"build_command": "go build ./..."}`)

	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if p.Dir != dir || p.Path != path {
		t.Errorf("Dir, Path = %q, %q; want %q, %q", p.Dir, p.Path, dir, path)
	}
	if !p.HasBuild() || p.BuildCommand != "go build ./..." {
		t.Errorf("BuildCommand = %q", p.BuildCommand)
	}
	if p.Formatter.Bin != "clang-format" {
		t.Errorf("unset formatter should keep defaults, got bin %q", p.Formatter.Bin)
	}
}

func TestLoadProject_Missing(t *testing.T) {
	dir := t.TempDir()

	p, err := LoadProject(dir)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("error = %v, want ErrFileNotFound", err)
	}
	if diff := cmp.Diff(DefaultProject(dir), p); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadProject_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"build_command": "make"`},
		{"trailing comma", `{"build_command": "make",}`},
		{"array", `["make"]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProjectFile, tt.content)

			p, err := LoadProject(dir)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if diff := cmp.Diff(DefaultProject(dir), p); diff != "" {
				t.Errorf("malformed file should yield defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadProject_InvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"build command number", `{"build_command": 42}`, "build_command"},
		{"format on save string", `{"format_on_save": "yes"}`, "format_on_save"},
		{"formatter string", `{"formatter": "clang-format"}`, "formatter"},
		{"empty bin", `{"formatter": {"bin": ""}}`, "formatter.bin"},
		{"style number", `{"formatter": {"style": 1}}`, "formatter.style"},
		{"args mixed", `{"formatter": {"args": ["-i", 2]}}`, "formatter.args"},
		{"languages string", `{"formatter": {"languages": "C"}}`, "formatter.languages"},
		{"script bool", `{"formatter": {"script": true}}`, "formatter.script"},
		{"timeout negative", `{"formatter": {"timeout": -1}}`, "formatter.timeout"},
		{"timeout garbage", `{"formatter": {"timeout": "soon"}}`, "formatter.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProjectFile, tt.content)

			p, err := LoadProject(dir)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("error = %v, want field %q", err, tt.field)
			}
			if diff := cmp.Diff(DefaultProject(dir), p); diff != "" {
				t.Errorf("invalid field should keep defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadProject_TimeoutSeconds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFile, `{"formatter": {"timeout": 2.5}}`)

	p, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Formatter.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v, want 2.5s", p.Formatter.Timeout)
	}
}

func TestFindProject(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, ProjectFile, `{}`)

	dir, ok := FindProject(nested)
	if !ok || dir != root {
		t.Errorf("FindProject() = %q, %v; want %q, true", dir, ok, root)
	}

	if err := os.Mkdir(filepath.Join(nested, ProjectFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if dir, _ := FindProject(nested); dir != root {
		t.Errorf("a directory named %s should be skipped, got %q", ProjectFile, dir)
	}
}

func TestFormatterSettings(t *testing.T) {
	f := DefaultProject(".").Formatter

	for _, lang := range []string{"C", "c", "C++"} {
		if !f.FormatsLanguage(lang) {
			t.Errorf("FormatsLanguage(%q) = false", lang)
		}
	}
	if f.FormatsLanguage("Go") {
		t.Error("FormatsLanguage(\"Go\") = true")
	}

	if diff := cmp.Diff([]string{"--style=Mozilla", "--assume-filename=main.c"}, f.CommandArgs("main.c")); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}

	f.Args = []string{"--fallback-style=none"}
	args := f.CommandArgs("main.c")
	if diff := cmp.Diff([]string{"--fallback-style=none"}, args); diff != "" {
		t.Errorf("CommandArgs with Args mismatch (-want +got):\n%s", diff)
	}
	args[0] = "changed"
	if f.Args[0] != "--fallback-style=none" {
		t.Error("CommandArgs should return a copy")
	}
}

func TestScriptPath(t *testing.T) {
	p := DefaultProject("/work")
	if p.ScriptPath() != "" {
		t.Errorf("ScriptPath() = %q, want empty", p.ScriptPath())
	}
	p.Formatter.Script = "/opt/fmt.lua"
	if p.ScriptPath() != "/opt/fmt.lua" {
		t.Errorf("absolute script path changed: %q", p.ScriptPath())
	}
}

func TestWriteProjectTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteProjectTemplate(dir, false)
	if err != nil {
		t.Fatalf("WriteProjectTemplate() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("template is not valid JSON:\n%s", data)
	}
	if !strings.Contains(string(data), "\n  \"formatter\": {") {
		t.Errorf("template is not indented:\n%s", data)
	}

	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	want := DefaultProject(dir)
	want.BuildCommand = DefaultBuildCommand
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("template round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := WriteProjectTemplate(dir, false); !errors.Is(err, ErrTemplateExists) {
		t.Errorf("second write error = %v, want ErrTemplateExists", err)
	}
	if _, err := WriteProjectTemplate(dir, true); err != nil {
		t.Errorf("forced write error = %v", err)
	}
}

func TestProjectTemplate_KeyOrder(t *testing.T) {
	p := DefaultProject("/work")
	p.Formatter.Args = []string{"-i"}
	p.Formatter.Script = "fmt.lua"

	data, err := ProjectTemplate(p)
	if err != nil {
		t.Fatal(err)
	}

	var keys []string
	gjson.GetBytes(data, "formatter").ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	want := []string{"bin", "style", "languages", "timeout", "args", "script"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("formatter keys mismatch (-want +got):\n%s", diff)
	}
}
