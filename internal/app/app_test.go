package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/slate/internal/config"
	"github.com/dshills/slate/internal/input/key"
	"github.com/dshills/slate/internal/input/keymap"
	"github.com/dshills/slate/internal/renderer/backend"
)

// newTestApp creates an app editing name inside a fresh project directory
// holding the given files.
func newTestApp(t *testing.T, name string, files map[string]string) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	for n, content := range files {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	a, err := New(Options{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		ProjectDir:   dir,
		File:         filepath.Join(dir, name),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, dir
}

func keyEvent(r rune, mod backend.ModMask) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r, Mod: mod}
}

func specialEvent(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNew_Defaults(t *testing.T) {
	a, dir := newTestApp(t, "main.c", map[string]string{"main.c": "int x;\n"})

	if a.Document().Language != "C" {
		t.Errorf("Language = %q, want C", a.Document().Language)
	}
	if a.Document().IsModified() {
		t.Error("freshly opened document should not be modified")
	}
	if a.Project().Dir != dir {
		t.Errorf("project dir = %q, want %q", a.Project().Dir, dir)
	}
	if got := a.Editor().CommentStyle().Line; got != "//" {
		t.Errorf("comment prefix = %q, want //", got)
	}
	if a.Editor().IndentUnit() != "  " {
		t.Errorf("IndentUnit = %q, want two spaces", a.Editor().IndentUnit())
	}
}

func TestNew_SettingsApplied(t *testing.T) {
	settings := `
[editor]
indent_width = 4

[highlight]
tokenizer = "keywords"

[languages.c]
line_comment = "#"

[keys]
"Ctrl+K" = "edit.duplicate"
"Ctrl+D" = ""
`
	a, _ := newTestApp(t, "main.c", map[string]string{"settings.toml": settings, "main.c": "x"})

	if a.Editor().IndentUnit() != "    " {
		t.Errorf("IndentUnit = %q, want four spaces", a.Editor().IndentUnit())
	}
	if got := a.Editor().CommentStyle().Line; got != "#" {
		t.Errorf("comment prefix = %q, want #", got)
	}
	if act, ok := a.Keymap().Lookup(key.NewRuneEvent('k', key.ModCtrl)); !ok || act != keymap.ActionDuplicate {
		t.Errorf("Ctrl+K = %q, %v; want duplicate", act, ok)
	}
	if _, ok := a.Keymap().Lookup(key.NewRuneEvent('d', key.ModCtrl)); ok {
		t.Error("Ctrl+D should be unbound")
	}
}

func TestNew_InvalidKeyBinding(t *testing.T) {
	settings := "[keys]\n\"Ctrl+K\" = \"no.such.action\"\n"
	a, _ := newTestApp(t, "main.c", map[string]string{"settings.toml": settings})

	if !strings.HasPrefix(a.Message(), "keys:") {
		t.Errorf("Message() = %q, want a key binding error", a.Message())
	}
	if _, ok := a.Keymap().Lookup(key.NewRuneEvent('s', key.ModCtrl)); !ok {
		t.Error("default bindings should survive an invalid override")
	}
}

func TestRun_TypeSaveQuit(t *testing.T) {
	a, dir := newTestApp(t, "main.c", nil)
	b := backend.NewNullBackend(40, 10)

	for _, ev := range []backend.Event{
		keyEvent('h', backend.ModNone),
		keyEvent('i', backend.ModNone),
		specialEvent(backend.KeyEnter),
		keyEvent('s', backend.ModCtrl),
		keyEvent('q', backend.ModCtrl),
	} {
		b.PostEvent(ev)
	}

	if err := a.Run(b); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "main.c")); got != "hi\n" {
		t.Errorf("saved file = %q, want %q", got, "hi\n")
	}
	if b.ShowCount() == 0 {
		t.Error("nothing was rendered")
	}
	if got := b.Line(0); got != "  1 hi" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestRun_MouseClickAndSelect(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "abcdef"})
	b := backend.NewNullBackend(40, 10)

	// The gutter is four cells wide, so x=5 is the second character.
	b.PostEvent(backend.Event{Type: backend.EventMouse, MouseX: 5, MouseY: 0, MouseButton: backend.MouseLeft})
	b.PostEvent(backend.Event{Type: backend.EventMouse, MouseX: 7, MouseY: 0, MouseButton: backend.MouseLeft})
	b.PostEvent(backend.Event{Type: backend.EventMouse, MouseX: 7, MouseY: 0, MouseButton: backend.MouseNone})
	b.PostEvent(keyEvent('q', backend.ModCtrl))

	if err := a.Run(b); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	sel := a.Editor().Selection()
	if sel.Anchor != 1 || sel.Active != 3 {
		t.Errorf("selection = %+v, want anchor 1 active 3", sel)
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	a.running.Store(true)
	if err := a.Run(backend.NewNullBackend(10, 5)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestHandleEvent_BracketedPaste(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)

	events := []backend.Event{
		{Type: backend.EventPaste, PasteStart: true},
		keyEvent('a', backend.ModNone),
		specialEvent(backend.KeyEnter),
		keyEvent('q', backend.ModCtrl), // inside a paste, not a quit
		specialEvent(backend.KeyTab),
		{Type: backend.EventPaste, PasteStart: false},
	}
	for _, ev := range events {
		if err := a.HandleEvent(ev); err != nil {
			t.Fatalf("HandleEvent() error = %v", err)
		}
	}

	if got := a.Editor().Text(); got != "a\nq\t" {
		t.Errorf("text = %q, want %q", got, "a\nq\t")
	}
	if a.Editor().UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want the paste as one step", a.Editor().UndoCount())
	}
}

func TestExecute_Clipboard(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "ab"})

	for _, act := range []keymap.Action{
		keymap.ActionSelectAll,
		keymap.ActionCopy,
		keymap.ActionJumpBottom,
		keymap.ActionPaste,
	} {
		if err := a.Execute(act); err != nil {
			t.Fatalf("Execute(%s) error = %v", act, err)
		}
	}
	if got := a.Editor().Text(); got != "abab" {
		t.Errorf("text = %q, want abab", got)
	}

	_ = a.Execute(keymap.ActionSelectAll)
	_ = a.Execute(keymap.ActionCut)
	if a.Editor().Text() != "" {
		t.Errorf("text after cut = %q, want empty", a.Editor().Text())
	}
	_ = a.Execute(keymap.ActionPaste)
	if got := a.Editor().Text(); got != "abab" {
		t.Errorf("text after paste = %q, want abab", got)
	}
}

func TestExecute_UndoReportsEmptyHistory(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	if err := a.Execute(keymap.ActionUndo); err != nil {
		t.Fatal(err)
	}
	if a.Message() == "" {
		t.Error("undo with empty history should set a message")
	}
}

func TestExecute_QuitWithUnsavedChanges(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	a.Editor().InsertText("x")

	if err := a.Execute(keymap.ActionQuit); err != nil {
		t.Fatalf("first quit = %v, want a warning only", err)
	}
	if !strings.Contains(a.Message(), "unsaved") {
		t.Errorf("Message() = %q", a.Message())
	}
	if err := a.Execute(keymap.ActionQuit); !errors.Is(err, ErrQuit) {
		t.Errorf("second quit = %v, want ErrQuit", err)
	}

	// Any other action disarms the confirmation.
	a.quitArmed = false
	_ = a.Execute(keymap.ActionQuit)
	_ = a.Execute(keymap.ActionMoveLeft)
	if err := a.Execute(keymap.ActionQuit); err != nil {
		t.Errorf("quit after another action = %v, want a new warning", err)
	}
}

func TestFormat_Script(t *testing.T) {
	files := map[string]string{
		"main.c":     "int x;\n",
		"fmt.lua":    "function format(text) return string.upper(text) end\n",
		"slate.json": `{"formatter": {"script": "fmt.lua", "languages": ["C"]}}`,
	}
	a, _ := newTestApp(t, "main.c", files)

	if err := a.Format(context.Background()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := a.Editor().Text(); got != "INT X;\n" {
		t.Errorf("text = %q", got)
	}
	if err := a.Editor().Undo(); err != nil || a.Editor().Text() != "int x;\n" {
		t.Errorf("undo after format = %q, %v", a.Editor().Text(), err)
	}
}

func TestFormat_NotConfigured(t *testing.T) {
	a, _ := newTestApp(t, "notes.txt", map[string]string{"notes.txt": "hello"})

	err := a.Format(context.Background())
	if !errors.Is(err, ErrFormatNotConfigured) {
		t.Fatalf("Format() error = %v, want ErrFormatNotConfigured", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "format" {
		t.Errorf("error = %#v, want an OperationError for format", err)
	}
	if a.Editor().Text() != "hello" {
		t.Errorf("text changed to %q", a.Editor().Text())
	}
}

func TestSave_FormatFailureDoesNotBlockSave(t *testing.T) {
	files := map[string]string{
		"main.c":     "int x;",
		"fmt.lua":    "function format(text) return nil, \"boom\" end\n",
		"slate.json": `{"format_on_save": true, "formatter": {"script": "fmt.lua", "languages": ["C"]}}`,
	}
	a, dir := newTestApp(t, "main.c", files)
	a.Editor().JumpToBottom()
	a.Editor().InsertText("\n")

	if err := a.Execute(keymap.ActionSave); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "main.c")); got != "int x;\n" {
		t.Errorf("saved file = %q", got)
	}
	if a.Document().IsModified() {
		t.Error("document still modified after save")
	}
	if !strings.Contains(a.Message(), "format") {
		t.Errorf("Message() = %q, want the format failure", a.Message())
	}
}

func TestFormatAndSave(t *testing.T) {
	files := map[string]string{
		"main.c":     "a",
		"fmt.lua":    "function format(text) return text .. \"\\n\" end\n",
		"slate.json": `{"formatter": {"script": "fmt.lua", "languages": ["c"]}}`,
	}
	a, dir := newTestApp(t, "main.c", files)

	if err := a.FormatAndSave(context.Background()); err != nil {
		t.Fatalf("FormatAndSave() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "main.c")); got != "a\n" {
		t.Errorf("saved file = %q", got)
	}
}

func TestBuild(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"slate.json": `{"build_command": "echo built"}`})

	p, err := a.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	<-p.Done()
	if p.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", p.ExitCode())
	}
	if !strings.Contains(p.Output(), "built") {
		t.Errorf("Output() = %q", p.Output())
	}
}

func TestBuild_NoCommand(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	if _, err := a.Build(); !errors.Is(err, ErrNoBuildCommand) {
		t.Errorf("Build() error = %v, want ErrNoBuildCommand", err)
	}
}

func TestHandleEvent_BuildResult(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)

	tests := []struct {
		result BuildResult
		want   string
	}{
		{BuildResult{ExitCode: 0}, "build succeeded"},
		{BuildResult{ExitCode: 2, Output: "cc main.c\nmain.c:1: error\n"}, "build failed: main.c:1: error"},
	}
	for _, tt := range tests {
		_ = a.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: tt.result})
		if a.Message() != tt.want {
			t.Errorf("Message() = %q, want %q", a.Message(), tt.want)
		}
	}
}

func TestHandleEvent_SettingsReload(t *testing.T) {
	a, dir := newTestApp(t, "main.c", map[string]string{"settings.toml": "[editor]\nindent_width = 2\n"})

	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[editor]\nindent_width = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_ = a.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: config.Event{Path: path, Op: config.OpWrite}})

	if got := len(a.Editor().IndentUnit()); got != 8 {
		t.Errorf("indent width = %d, want 8", got)
	}
	if a.Message() != "settings reloaded" {
		t.Errorf("Message() = %q", a.Message())
	}
}

func TestStatus(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "ab\ncd"})
	a.Editor().SetCursor(4)

	s := a.Status()
	if s.Left != "main.c" {
		t.Errorf("Left = %q", s.Left)
	}
	if s.Right != "Ln 2, Col 2  C" {
		t.Errorf("Right = %q", s.Right)
	}

	a.Editor().InsertText("x")
	if s := a.Status(); s.Left != "main.c [+]" {
		t.Errorf("modified Left = %q", s.Left)
	}
}

func TestConvertToKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   backend.Event
		want key.Event
	}{
		{"rune", keyEvent('a', backend.ModNone), key.NewRuneEvent('a', key.ModNone)},
		{"shifted rune", keyEvent('A', backend.ModShift), key.NewRuneEvent('A', key.ModNone)},
		{"ctrl rune", keyEvent('S', backend.ModCtrl), key.NewRuneEvent('s', key.ModCtrl)},
		{"backtab", specialEvent(backend.KeyBacktab), key.NewSpecialEvent(key.KeyTab, key.ModShift)},
		{"ctrl home", backend.Event{Type: backend.EventKey, Key: backend.KeyHome, Mod: backend.ModCtrl}, key.NewSpecialEvent(key.KeyHome, key.ModCtrl)},
		{"f5", specialEvent(backend.KeyF5), key.NewSpecialEvent(key.KeyF5, key.ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertToKeyEvent(tt.ev); got != tt.want {
				t.Errorf("convertToKeyEvent() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHandleEvent_QuitRequest(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	a.Editor().InsertText("unsaved")

	err := a.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("HandleEvent(quit request) = %v, want ErrQuit", err)
	}
}

func TestRequestQuit_NotRunning(t *testing.T) {
	a, _ := newTestApp(t, "main.c", nil)
	a.RequestQuit()
	if a.Message() != "" {
		t.Errorf("Message() = %q, want empty", a.Message())
	}
}

func TestExecute_UndoReportsLabel(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "x\n"})
	_ = a.Execute(keymap.ActionDuplicate)
	if err := a.Execute(keymap.ActionUndo); err != nil {
		t.Fatal(err)
	}
	if a.Message() != "undo Duplicate" {
		t.Errorf("Message() = %q, want %q", a.Message(), "undo Duplicate")
	}
	if a.Editor().Text() != "x\n" {
		t.Errorf("text = %q", a.Editor().Text())
	}
}

func TestExecute_HardLineMotion(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "int a;\nint b;\n"})
	ed := a.Editor()
	ed.SetCursor(9)

	_ = a.Execute(keymap.ActionHardLineStart)
	if ed.Cursor() != 7 {
		t.Errorf("after hard line start cursor = %d, want 7", ed.Cursor())
	}
	_ = a.Execute(keymap.ActionSelectHardEnd)
	if sel := ed.Selection(); sel.Anchor != 7 || sel.Active != 13 {
		t.Errorf("selection = %+v, want 7..13", sel)
	}
	_ = a.Execute(keymap.ActionHardLineEnd)
	if ed.HasSelection() || ed.Cursor() != 13 {
		t.Errorf("after hard line end cursor = %d, selection %v", ed.Cursor(), ed.HasSelection())
	}
}

func TestGoToLine(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "one\ntwo\nthree\nfour\n"})

	for _, ev := range []backend.Event{
		keyEvent('g', backend.ModCtrl),
		keyEvent('3', backend.ModNone),
		keyEvent('x', backend.ModNone),
	} {
		if err := a.HandleEvent(ev); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.HasSuffix(a.Status().Left, "Go to line: 3") {
		t.Errorf("status = %q, want the line prompt", a.Status().Left)
	}
	if a.Editor().Text() != "one\ntwo\nthree\nfour\n" {
		t.Errorf("prompt input reached the buffer: %q", a.Editor().Text())
	}

	if err := a.HandleEvent(specialEvent(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}
	if line, col := a.CursorPosition(); line != 3 || col != 1 {
		t.Errorf("CursorPosition() = %d,%d; want 3,1", line, col)
	}
	if strings.Contains(a.Status().Left, "Go to line") {
		t.Errorf("prompt still shown: %q", a.Status().Left)
	}
}

func TestGoToLine_ClampAndCancel(t *testing.T) {
	a, _ := newTestApp(t, "main.c", map[string]string{"main.c": "a\nb"})
	ed := a.Editor()

	for _, ev := range []backend.Event{
		keyEvent('g', backend.ModCtrl),
		keyEvent('9', backend.ModNone),
		keyEvent('9', backend.ModNone),
		specialEvent(backend.KeyBackspace),
		specialEvent(backend.KeyEnter),
	} {
		_ = a.HandleEvent(ev)
	}
	if ed.Cursor() != 2 {
		t.Errorf("jump past the end: cursor = %d, want 2", ed.Cursor())
	}

	for _, ev := range []backend.Event{
		keyEvent('g', backend.ModCtrl),
		keyEvent('1', backend.ModNone),
		specialEvent(backend.KeyEscape),
	} {
		_ = a.HandleEvent(ev)
	}
	if ed.Cursor() != 2 {
		t.Errorf("cancelled jump moved the cursor to %d", ed.Cursor())
	}
	_ = a.HandleEvent(keyEvent('z', backend.ModNone))
	if ed.Text() != "a\nzb" {
		t.Errorf("typing after cancel = %q, want a\\nzb", ed.Text())
	}
}
