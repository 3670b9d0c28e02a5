package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/slate/internal/engine"
	"github.com/dshills/slate/internal/engine/buffer"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path    string
		content string
		want    string
	}{
		{"main.c", "int main(void) { return 0; }\n", "C"},
		{"main.go", "package main\n", "Go"},
		{"/src/widget.cpp", "class W {};\n", "C++"},
		{"data.zzzunknown", "", PlainText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectLanguage(tt.path, []byte(tt.content)); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestOpenDocument_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.c")
	d, err := OpenDocument(path)
	if err != nil {
		t.Fatalf("OpenDocument() error = %v", err)
	}
	if d.Name != "new.c" || d.Editor.Len() != 0 || d.IsModified() {
		t.Errorf("document = %+v", d)
	}

	d.Editor.InsertText("int x;\n")
	if !d.IsModified() {
		t.Error("document should be modified after an edit")
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if d.IsModified() {
		t.Error("document should be clean after save")
	}
	if got := readFile(t, path); got != "int x;\n" {
		t.Errorf("file = %q", got)
	}
}

func TestDocument_SaveKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	if err := os.WriteFile(path, []byte("echo hi\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	d, err := OpenDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	d.Editor.JumpToBottom()
	d.Editor.InsertText("echo bye\n")
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
	if got := readFile(t, path); got != "echo hi\necho bye\n" {
		t.Errorf("file = %q", got)
	}
}

func TestDocument_KeepsLineEndings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		insert  string
		want    string
	}{
		{"crlf unedited", "int a;\r\nint b;\r\n", "", "int a;\r\nint b;\r\n"},
		{"crlf edited", "int a;\r\n", "int b;\n", "int a;\r\nint b;\r\n"},
		{"lf", "int a;\n", "int b;\n", "int a;\nint b;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "main.c")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			d, err := OpenDocument(path)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(d.Editor.Text(), "\r") {
				t.Errorf("editor text %q holds carriage returns", d.Editor.Text())
			}
			if tt.insert != "" {
				d.Editor.JumpToBottom()
				d.Editor.InsertText(tt.insert)
			}
			if err := d.Save(); err != nil {
				t.Fatal(err)
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("saved file = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument_ReloadDetectsLineEnding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := OpenDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.Reload(); err != nil {
		t.Fatal(err)
	}
	if d.LineEnding != buffer.LineEndingCRLF {
		t.Errorf("LineEnding = %v, want CRLF", d.LineEnding)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "one\r\ntwo\r\n" {
		t.Errorf("saved file = %q", got)
	}
}

func TestDocument_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := OpenDocument(path, engine.WithIndentWidth(4))
	if err != nil {
		t.Fatal(err)
	}
	d.Editor.InsertText("x")

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if d.Editor.Text() != "two" || d.IsModified() || d.Editor.CanUndo() {
		t.Errorf("after reload: text %q modified %v canUndo %v", d.Editor.Text(), d.IsModified(), d.Editor.CanUndo())
	}
}

func TestDocument_Scratch(t *testing.T) {
	d := NewDocument("", nil)
	if !d.IsScratch() || d.Name != "Untitled" {
		t.Errorf("scratch document = %+v", d)
	}
	if err := d.Save(); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("Save() error = %v, want ErrNoFilePath", err)
	}
	if err := d.Reload(); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("Reload() error = %v, want ErrNoFilePath", err)
	}
}
