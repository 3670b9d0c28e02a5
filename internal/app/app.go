package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rivo/uniseg"

	"github.com/dshills/slate/internal/config"
	"github.com/dshills/slate/internal/engine"
	"github.com/dshills/slate/internal/input/keymap"
	"github.com/dshills/slate/internal/integration/process"
	"github.com/dshills/slate/internal/plugin/lua"
	"github.com/dshills/slate/internal/renderer"
	"github.com/dshills/slate/internal/renderer/backend"
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

const (
	// maxBuilds bounds concurrently running builds.
	maxBuilds = 4

	// shutdownTimeout bounds how long Close waits for running builds.
	shutdownTimeout = 2 * time.Second

	// tokenizerSampleSize bounds the text used to guess a lexer.
	tokenizerSampleSize = 4 << 10
)

// Options configures the application.
type Options struct {
	// SettingsPath is the settings file. Empty selects the default
	// location.
	SettingsPath string

	// ProjectDir holds slate.json. Empty searches upwards from the file.
	ProjectDir string

	// File is the file to edit. Empty opens a scratch buffer.
	File string

	// LogLevel overrides the level from the settings when set.
	LogLevel string

	// Logger receives application logs. Nil discards them.
	Logger *Logger

	// SystemClipboard enables the system clipboard.
	SystemClipboard bool

	// WatchConfig reloads the settings and project files when they change
	// while Run is active.
	WatchConfig bool
}

// App coordinates one document with its configuration, external tools and
// the terminal. Apart from build exit notifications, which arrive as
// backend events, all methods must be called from one goroutine.
type App struct {
	opts   Options
	logger *Logger

	settings     config.Settings
	settingsPath string
	project      config.Project

	registry  *highlight.Registry
	theme     *highlight.Theme
	keymap    *keymap.Keymap
	clipboard *Clipboard
	procs     *process.Supervisor
	doc       *Document

	mu       sync.Mutex
	backend  backend.Backend
	renderer *renderer.Renderer
	watcher  *config.Watcher
	running  atomic.Bool
	done     chan struct{}
	closed   sync.Once

	message   string
	jump      lineJump
	quitArmed bool
	pasting   bool
	paste     strings.Builder
	mouseDown bool
}

// New loads the configuration and opens the document named in opts.
// Configuration problems are logged and the defaults used; only a file
// that exists but cannot be read is an error.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}
	a := &App{
		opts:      opts,
		logger:    logger.WithComponent("app"),
		registry:  highlight.DefaultRegistry(),
		clipboard: NewClipboard(opts.SystemClipboard, logger),
		done:      make(chan struct{}),
	}
	a.procs = process.NewSupervisor(
		process.WithMaxProcesses(maxBuilds),
		process.WithProcessExitCallback(a.onProcessExit),
	)

	a.loadSettings()
	level := opts.LogLevel
	if level == "" {
		level = a.settings.Log.Level
	}
	logger.SetLevel(ParseLogLevel(level))
	a.loadProject()

	doc, err := a.openDocument(opts.File)
	if err != nil {
		return nil, err
	}
	a.doc = doc
	a.applySettings()
	a.logger.Info("opened %s (%s)", doc.Name, doc.Language)
	return a, nil
}

func (a *App) openDocument(path string) (*Document, error) {
	if path == "" {
		return NewDocument("", nil), nil
	}
	return OpenDocument(path)
}

// Document returns the document being edited.
func (a *App) Document() *Document {
	return a.doc
}

// Editor returns the editor of the document.
func (a *App) Editor() *engine.Editor {
	return a.doc.Editor
}

// Settings returns the settings in effect.
func (a *App) Settings() config.Settings {
	return a.settings
}

// Project returns the project configuration in effect.
func (a *App) Project() config.Project {
	return a.project
}

// Keymap returns the key bindings in effect.
func (a *App) Keymap() *keymap.Keymap {
	return a.keymap
}

// Theme returns the color theme in effect.
func (a *App) Theme() *highlight.Theme {
	return a.theme
}

// Message returns the last status message.
func (a *App) Message() string {
	return a.message
}

// ============================================================================
// Configuration
// ============================================================================

func (a *App) loadSettings() {
	path := a.opts.SettingsPath
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			a.logger.Warn("no settings location: %v", err)
			a.settings = config.DefaultSettings()
			return
		}
		path = p
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	a.settingsPath = path

	s, err := config.LoadSettings(path)
	if err != nil {
		a.logger.Warn("settings: %v", err)
		a.message = "settings: " + firstLine(err.Error())
	}
	a.settings = s
}

func (a *App) loadProject() {
	dir := a.opts.ProjectDir
	if dir == "" {
		start := "."
		if a.opts.File != "" {
			start = filepath.Dir(a.opts.File)
		}
		found, ok := config.FindProject(start)
		if !ok {
			abs, err := filepath.Abs(start)
			if err != nil {
				abs = start
			}
			a.project = config.DefaultProject(abs)
			a.logger.Debug("no %s found above %s, using defaults", config.ProjectFile, abs)
			return
		}
		dir = found
	}
	a.readProject(dir)
}

func (a *App) readProject(path string) {
	p, err := config.LoadProject(path)
	switch {
	case errors.Is(err, config.ErrFileNotFound):
		a.logger.Info("project: %v", err)
	case err != nil:
		a.logger.Warn("project: %v", err)
		a.message = "project: " + firstLine(err.Error())
	default:
		a.logger.Debug("project config %s loaded", p.Path)
	}
	a.project = p
}

// applySettings pushes the settings into the keymap, the theme and the
// editor.
func (a *App) applySettings() {
	theme, ok := highlight.ThemeByName(a.settings.Highlight.Theme)
	if !ok {
		a.logger.Warn("unknown theme %q, using default", a.settings.Highlight.Theme)
	}
	a.theme = theme

	km := keymap.DefaultKeymap()
	if err := km.Apply(a.settings.Keys); err != nil {
		a.logger.Warn("key bindings: %v", err)
		a.message = "keys: " + firstLine(err.Error())
	}
	a.keymap = km

	a.doc.Editor.Configure(a.editorOptions()...)
	if a.renderer != nil {
		a.renderer.SetTheme(theme)
	}
}

func (a *App) editorOptions() []engine.Option {
	s := a.settings
	m := layout.NewCellMetrics(s.View.TabWidth)
	m.CellWidth = s.View.CellWidth
	m.CellHeight = s.View.LineHeight

	return []engine.Option{
		engine.WithIndentWidth(s.Editor.IndentWidth),
		engine.WithMaxUndoEntries(s.Editor.MaxUndo),
		engine.WithScrollMargin(s.Editor.ScrollMarginLines),
		engine.WithMetrics(m),
		engine.WithTokenizer(a.tokenizer()),
		engine.WithCommentStyle(a.commentStyle()),
	}
}

// language returns the built-in language description of the document.
func (a *App) language() (*highlight.Language, bool) {
	if l, ok := a.registry.ByName(a.doc.Language); ok {
		return l, true
	}
	if ext := filepath.Ext(a.doc.Path); ext != "" {
		return a.registry.ByExtension(ext)
	}
	return nil, false
}

func (a *App) tokenizer() highlight.Tokenizer {
	switch strings.ToLower(a.settings.Highlight.Tokenizer) {
	case config.TokenizerNone:
		return nil
	case config.TokenizerKeywords:
		if l, ok := a.language(); ok {
			return highlight.NewKeywordTokenizer(l)
		}
		return nil
	default:
		sample := ""
		if a.doc.Language == PlainText {
			sample = a.doc.Editor.TextRange(0, min(a.doc.Editor.Len(), tokenizerSampleSize))
		}
		t := highlight.NewChromaTokenizer(a.doc.Language, a.doc.Path, sample)
		a.logger.Debug("chroma lexer %q", t.Language())
		return t
	}
}

// commentStyle returns the comment syntax of the document's language with
// the overrides from the settings applied.
func (a *App) commentStyle() engine.CommentStyle {
	style := engine.DefaultCommentStyle
	if l, ok := a.language(); ok {
		style.Line = l.LineComment()
		style.BlockStart, style.BlockEnd = l.BlockComment()
	}
	if o, ok := a.settings.Language(a.doc.Language); ok {
		if o.LineComment != "" {
			style.Line = o.LineComment
		}
		if o.BlockStart != "" {
			style.BlockStart, style.BlockEnd = o.BlockStart, o.BlockEnd
		}
	}
	return style
}

// ReloadSettings re-reads the settings file and applies it.
func (a *App) ReloadSettings() {
	a.loadSettings()
	a.logger.SetLevel(ParseLogLevel(a.settings.Log.Level))
	a.applySettings()
	a.logger.Info("settings reloaded from %s", a.settingsPath)
}

// ReloadProject re-reads the project file.
func (a *App) ReloadProject() {
	a.readProject(a.project.Path)
	a.logger.Info("project config reloaded from %s", a.project.Path)
}

// ============================================================================
// Operations
// ============================================================================

// formatter returns the formatter configured for the document.
func (a *App) formatter() (engine.Formatter, error) {
	f := a.project.Formatter
	if !f.FormatsLanguage(a.doc.Language) {
		return nil, fmt.Errorf("%w: %s", ErrFormatNotConfigured, a.doc.Language)
	}
	if path := a.project.ScriptPath(); path != "" {
		info := lua.FileInfo{
			Filename:    a.doc.Path,
			Language:    a.doc.Language,
			IndentWidth: a.settings.Editor.IndentWidth,
		}
		sf, err := lua.LoadScriptFormatter(path, info, lua.WithExecutionTimeout(f.Timeout))
		if err != nil {
			return nil, err
		}
		return sf, nil
	}
	return process.NewCommandFormatter(f.Bin, f.CommandArgs(a.doc.Path), f.Timeout), nil
}

// Format runs the configured formatter over the document as one undo step.
// The document is unchanged when formatting fails.
func (a *App) Format(ctx context.Context) error {
	f, err := a.formatter()
	if err == nil {
		err = a.doc.Editor.ApplyFormat(ctx, f)
	}
	if err != nil {
		a.logger.Warn("format %s: %v", a.doc.Name, err)
		return NewOperationError("format", a.doc.Name, err)
	}
	a.doc.Editor.EnsureCursorVisible()
	a.logger.Info("formatted %s", a.doc.Name)
	return nil
}

// Save writes the document. With format on save enabled the document is
// formatted first; a formatting failure is reported in the status message
// and does not prevent the save.
func (a *App) Save(ctx context.Context) error {
	if a.project.FormatOnSave && a.project.Formatter.FormatsLanguage(a.doc.Language) {
		if err := a.Format(ctx); err != nil {
			a.message = firstLine(err.Error())
		}
	}
	if err := a.doc.Save(); err != nil {
		a.logger.Error("%v", err)
		return err
	}
	a.logger.Info("saved %s", a.doc.Path)
	return nil
}

// FormatAndSave formats and saves the document, failing if either step
// fails.
func (a *App) FormatAndSave(ctx context.Context) error {
	if err := a.Format(ctx); err != nil {
		return err
	}
	return a.doc.Save()
}

// Reload replaces the document text with the file contents.
func (a *App) Reload() error {
	if err := a.doc.Reload(); err != nil {
		a.logger.Warn("%v", err)
		return err
	}
	a.logger.Info("reloaded %s", a.doc.Path)
	return nil
}

// Build starts the project build command in the project directory. It
// returns once the command runs; the exit is logged and reported through
// the status line.
func (a *App) Build() (*process.Process, error) {
	if !a.project.HasBuild() {
		return nil, NewOperationError("build", a.project.Dir, ErrNoBuildCommand)
	}
	p, err := a.procs.RunShell("build", a.project.BuildCommand, a.project.Dir)
	if err != nil {
		a.logger.Error("build: %v", err)
		return nil, NewOperationError("build", a.project.BuildCommand, err)
	}
	a.logger.WithField("id", p.ID).Info("build started: %s", a.project.BuildCommand)
	return p, nil
}

// BuildResult reports how a build ended.
type BuildResult struct {
	ID       string
	ExitCode int
	Err      error
	Runtime  time.Duration
	Output   string
}

// Succeeded reports whether the build exited with status zero.
func (r BuildResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

func (a *App) onProcessExit(p *process.Process) {
	r := BuildResult{
		ID:       p.ID,
		ExitCode: p.ExitCode(),
		Err:      p.ExitError(),
		Runtime:  p.Runtime(),
		Output:   p.Output(),
	}
	log := a.logger.WithField("id", r.ID)
	if r.Succeeded() {
		log.Info("build finished in %s", r.Runtime.Round(time.Millisecond))
	} else {
		log.Warn("build failed with exit code %d: %s", r.ExitCode, lastLine(r.Output))
	}
	a.post(backend.Event{Type: backend.EventInterrupt, Data: r})
}

// post queues ev for the running event loop. It is safe to call from any
// goroutine and does nothing while the loop is not running.
func (a *App) post(ev backend.Event) {
	a.mu.Lock()
	b := a.backend
	a.mu.Unlock()
	if b != nil {
		b.PostEvent(ev)
	}
}

// RequestQuit asks the running event loop to exit without the unsaved
// changes confirmation. It is safe to call from any goroutine.
func (a *App) RequestQuit() {
	a.post(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
}

type quitRequest struct{}

// CursorPosition returns the one-based hard line and grapheme column of
// the cursor.
func (a *App) CursorPosition() (line, col int) {
	ed := a.doc.Editor
	lines := ed.Lines()
	if len(lines) == 0 {
		return 1, 1
	}
	l := lines[layout.LineIndexAt(lines, ed.Cursor())]
	prefix := ed.TextRange(l.LogicalStart, ed.Cursor())
	return l.LogicalLine + 1, uniseg.GraphemeClusterCount(prefix) + 1
}

// Status returns the status line for the current state.
func (a *App) Status() renderer.Status {
	left := a.doc.Name
	if a.doc.IsModified() {
		left += " [+]"
	}
	switch {
	case a.jump.active:
		left += "  Go to line: " + a.jump.digits
	case a.message != "":
		left += "  " + a.message
	}
	line, col := a.CursorPosition()
	return renderer.Status{
		Left:  left,
		Right: fmt.Sprintf("Ln %d, Col %d  %s", line, col, a.doc.Language),
	}
}

// Close stops the config watcher and running builds.
func (a *App) Close() error {
	var err error
	a.closed.Do(func() {
		close(a.done)
		a.procs.Shutdown(shutdownTimeout)
		a.mu.Lock()
		w := a.watcher
		a.watcher = nil
		a.mu.Unlock()
		if w != nil {
			err = w.Close()
		}
		_ = a.logger.Sync()
	})
	return err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
