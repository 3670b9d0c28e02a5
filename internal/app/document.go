package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"

	"github.com/dshills/slate/internal/engine"
	"github.com/dshills/slate/internal/engine/buffer"
)

// PlainText is the language of files enry cannot classify.
const PlainText = "Text"

// detectSampleSize bounds the content handed to language detection.
const detectSampleSize = 16 << 10

// DetectLanguage returns the linguist name of the language of a file, such
// as "C", "C++" or "Go", judged from its name and content.
func DetectLanguage(path string, content []byte) string {
	if len(content) > detectSampleSize {
		content = content[:detectSampleSize]
	}
	lang := enry.GetLanguage(filepath.Base(path), content)
	if lang == "" {
		return PlainText
	}
	return lang
}

// Document is the file being edited together with its editor state.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	// Language is the detected language name.
	Language string

	// Editor holds the text, selection and history.
	Editor *engine.Editor

	// LineEnding is the line ending style of the file. The editor holds LF
	// text; Save writes this style back.
	LineEnding buffer.LineEnding

	savedRevision uint64
	mode          fs.FileMode
}

// NewDocument creates a document for path holding content. The document
// starts unmodified.
func NewDocument(path string, content []byte, opts ...engine.Option) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	opts = append([]engine.Option{engine.WithContent(string(content))}, opts...)

	d := &Document{
		Path:       path,
		Name:       name,
		Language:   DetectLanguage(path, content),
		Editor:     engine.New(opts...),
		LineEnding: buffer.DetectLineEnding(string(content)),
		mode:       0o644,
	}
	d.markSaved()
	return d
}

// OpenDocument reads the file at path. A missing file opens an empty
// document that is created on the first save.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewOperationError("open", abs, err)
	}
	d := NewDocument(abs, content, opts...)
	if info, err := os.Stat(abs); err == nil {
		d.mode = info.Mode().Perm()
	}
	return d, nil
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified reports whether the text changed since it was last loaded or
// saved.
func (d *Document) IsModified() bool {
	return d.Editor.Revision() != d.savedRevision
}

func (d *Document) markSaved() {
	d.savedRevision = d.Editor.Revision()
}

// Save writes the text to the document's file, keeping its permissions
// and line ending style.
func (d *Document) Save() error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrNoFilePath)
	}
	if err := writeFileAtomic(d.Path, []byte(d.LineEnding.Apply(d.Editor.Text())), d.mode); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.markSaved()
	return nil
}

// Reload replaces the text with the file's current contents. The history
// is cleared.
func (d *Document) Reload() error {
	if d.IsScratch() {
		return NewOperationError("reload", d.Name, ErrNoFilePath)
	}
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}
	d.LineEnding = buffer.DetectLineEnding(string(content))
	d.Editor.Load(string(content))
	d.markSaved()
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
