package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// SettingsFile is the settings file name inside the user config directory.
const SettingsFile = "settings.toml"

// Tokenizer names accepted by [highlight] tokenizer.
const (
	TokenizerChroma   = "chroma"
	TokenizerKeywords = "keywords"
	TokenizerNone     = "none"
)

// Settings holds the user preferences read from settings.toml.
type Settings struct {
	Editor    EditorSettings              `toml:"editor"`
	View      ViewSettings                `toml:"view"`
	Highlight HighlightSettings           `toml:"highlight"`
	Log       LogSettings                 `toml:"log"`
	Languages map[string]LanguageSettings `toml:"languages"`

	// Keys maps key specifications such as "Ctrl+K" to action names. An
	// empty action unbinds the key.
	Keys map[string]string `toml:"keys"`
}

// EditorSettings configures editing behavior.
type EditorSettings struct {
	// IndentWidth is the number of spaces Indent inserts.
	IndentWidth int `toml:"indent_width"`

	// MaxUndo bounds the undo history.
	MaxUndo int `toml:"max_undo"`

	// ScrollMarginLines is kept between the cursor and the viewport edge.
	ScrollMarginLines int `toml:"scroll_margin_lines"`
}

// ViewSettings configures text measurement.
type ViewSettings struct {
	CellWidth  float64 `toml:"cell_width"`
	LineHeight float64 `toml:"line_height"`
	TabWidth   int     `toml:"tab_width"`
}

// HighlightSettings selects the tokenizer and color theme.
type HighlightSettings struct {
	Tokenizer string `toml:"tokenizer"`
	Theme     string `toml:"theme"`
}

// LogSettings configures the log output.
type LogSettings struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`

	// File receives log output. Empty disables logging in the terminal UI.
	File string `toml:"file"`
}

// LanguageSettings overrides the comment syntax of one language.
type LanguageSettings struct {
	LineComment string `toml:"line_comment"`
	BlockStart  string `toml:"block_start"`
	BlockEnd    string `toml:"block_end"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Editor: EditorSettings{
			IndentWidth:       2,
			MaxUndo:           100,
			ScrollMarginLines: 1,
		},
		View: ViewSettings{
			CellWidth:  1,
			LineHeight: 1,
			TabWidth:   4,
		},
		Highlight: HighlightSettings{
			Tokenizer: TokenizerChroma,
			Theme:     "monokai",
		},
		Log: LogSettings{
			Level: "info",
		},
		Languages: map[string]LanguageSettings{},
		Keys:      map[string]string{},
	}
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/slate/settings.toml, or the
// platform equivalent.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "slate", SettingsFile), nil
}

// LoadSettings reads the settings file at path.
//
// A missing file yields the defaults and no error. A file that is not valid
// TOML yields the defaults and a *ParseError. Settings with invalid values
// are reset to their defaults and reported with errors matching
// ErrInvalidConfig; the other settings of the file still apply.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(path, data)
}

// ParseSettings decodes settings from data. source names the data in
// errors.
func ParseSettings(source string, data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return DefaultSettings(), newParseError(source, err)
	}
	if s.Languages == nil {
		s.Languages = map[string]LanguageSettings{}
	}
	if s.Keys == nil {
		s.Keys = map[string]string{}
	}
	return s, s.validate()
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	return pe
}

// validate resets every out-of-range setting to its default and returns
// one FieldError per reset.
func (s *Settings) validate() error {
	def := DefaultSettings()
	var errs []error
	reject := func(field string, value any, reason string) {
		errs = append(errs, &FieldError{Field: field, Value: value, Reason: reason})
	}

	if s.Editor.IndentWidth < 1 || s.Editor.IndentWidth > 16 {
		reject("editor.indent_width", s.Editor.IndentWidth, "must be between 1 and 16")
		s.Editor.IndentWidth = def.Editor.IndentWidth
	}
	if s.Editor.MaxUndo < 1 {
		reject("editor.max_undo", s.Editor.MaxUndo, "must be positive")
		s.Editor.MaxUndo = def.Editor.MaxUndo
	}
	if s.Editor.ScrollMarginLines < 0 {
		reject("editor.scroll_margin_lines", s.Editor.ScrollMarginLines, "must not be negative")
		s.Editor.ScrollMarginLines = def.Editor.ScrollMarginLines
	}
	if s.View.CellWidth <= 0 {
		reject("view.cell_width", s.View.CellWidth, "must be positive")
		s.View.CellWidth = def.View.CellWidth
	}
	if s.View.LineHeight <= 0 {
		reject("view.line_height", s.View.LineHeight, "must be positive")
		s.View.LineHeight = def.View.LineHeight
	}
	if s.View.TabWidth < 1 || s.View.TabWidth > 16 {
		reject("view.tab_width", s.View.TabWidth, "must be between 1 and 16")
		s.View.TabWidth = def.View.TabWidth
	}
	switch s.Highlight.Tokenizer {
	case TokenizerChroma, TokenizerKeywords, TokenizerNone:
	default:
		reject("highlight.tokenizer", s.Highlight.Tokenizer, "must be chroma, keywords or none")
		s.Highlight.Tokenizer = def.Highlight.Tokenizer
	}
	if strings.TrimSpace(s.Highlight.Theme) == "" {
		reject("highlight.theme", s.Highlight.Theme, "must not be empty")
		s.Highlight.Theme = def.Highlight.Theme
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		reject("log.level", s.Log.Level, "must be debug, info, warn or error")
		s.Log.Level = def.Log.Level
	}
	for name, lang := range s.Languages {
		if (lang.BlockStart == "") != (lang.BlockEnd == "") {
			reject("languages."+name, lang.BlockStart+" "+lang.BlockEnd, "block_start and block_end must be set together")
			lang.BlockStart, lang.BlockEnd = "", ""
			s.Languages[name] = lang
		}
	}

	return errors.Join(errs...)
}

// Language returns the comment override for the named language. Names
// compare case-insensitively.
func (s Settings) Language(name string) (LanguageSettings, bool) {
	if lang, ok := s.Languages[name]; ok {
		return lang, true
	}
	for key, lang := range s.Languages {
		if strings.EqualFold(key, name) {
			return lang, true
		}
	}
	return LanguageSettings{}, false
}
