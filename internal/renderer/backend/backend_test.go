package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)

	cell := NewCell("X", DefaultStyle().WithForeground(ColorFromRGB(255, 0, 0)))
	b.SetCell(10, 5, cell)

	if got := b.GetCell(10, 5); got != cell {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)

	if got := b.GetCell(-1, 0); got != EmptyCell() {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFill(t *testing.T) {
	b := NewNullBackend(80, 24)

	cell := NewCell(".", DefaultStyle())
	b.Fill(RectFromSize(5, 10, 5, 10), cell)

	if got := b.GetCell(15, 7); got != cell {
		t.Error("cell inside rect should be filled")
	}
	if got := b.GetCell(0, 0); got == cell {
		t.Error("cell outside rect should not be filled")
	}
	if got := b.GetCell(20, 7); got == cell {
		t.Error("right edge is exclusive")
	}
}

func TestNullBackendClear(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.SetCell(10, 10, NewCell("X", DefaultStyle()))
	b.Clear()

	if got := b.GetCell(10, 10); got != EmptyCell() {
		t.Error("clear should reset all cells")
	}
}

func TestNullBackendLine(t *testing.T) {
	b := NewNullBackend(10, 2)

	for i, s := range []string{"h", "é", "世", "", "!"} {
		b.SetCell(i, 0, NewCell(s, DefaultStyle()))
	}

	if got := b.Line(0); got != "hé世!" {
		t.Errorf("Line(0) = %q, want %q", got, "hé世!")
	}
	if got := b.Line(1); got != "" {
		t.Errorf("Line(1) = %q, want empty", got)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.ShowCursor(15, 10)
	x, y, visible := b.CursorPosition()
	if x != 15 || y != 10 || !visible {
		t.Errorf("cursor position: expected (15, 10, true), got (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	if _, _, visible = b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.Resize(100, 40)

	w, h := b.Size()
	if w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("expected resize event, got %+v", ev)
	}
}

func TestNullBackendPostEvent(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.PostEvent(Event{Type: EventKey, Key: KeyEnter})

	got := b.PollEvent()
	if got.Type != EventKey || got.Key != KeyEnter {
		t.Errorf("expected enter key event, got %+v", got)
	}
}

func TestModMaskHas(t *testing.T) {
	mod := ModShift | ModCtrl

	if !mod.Has(ModShift) {
		t.Error("should have shift")
	}
	if !mod.Has(ModCtrl) {
		t.Error("should have ctrl")
	}
	if mod.Has(ModAlt) {
		t.Error("should not have alt")
	}
}

func TestStyle(t *testing.T) {
	s := DefaultStyle().WithAttributes(AttrBold).WithAttributes(AttrItalic)
	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrItalic) {
		t.Errorf("attributes = %b, want bold and italic", s.Attributes)
	}
	if !s.Foreground.IsDefault() {
		t.Error("default foreground expected")
	}

	c := ColorFromColorful(colorful.Color{R: 1.2, G: 0.5, B: -0.1})
	if c.R != 255 || c.B != 0 || c.IsDefault() {
		t.Errorf("ColorFromColorful should clamp, got %+v", c)
	}
}

func TestNewCellWidth(t *testing.T) {
	tests := []struct {
		text  string
		width int
	}{
		{"a", 1},
		{"世", 2},
		{"é", 1},
	}
	for _, tt := range tests {
		if got := NewCell(tt.text, DefaultStyle()).Width; got != tt.width {
			t.Errorf("NewCell(%q).Width = %d, want %d", tt.text, got, tt.width)
		}
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(20, 5)
	t.Cleanup(term.Shutdown)
	return term, screen
}

func TestTerminalDraw(t *testing.T) {
	term, screen := newSimTerminal(t)

	red := DefaultStyle().WithForeground(ColorFromRGB(255, 0, 0)).WithAttributes(AttrBold)
	term.SetCell(0, 0, NewCell("a", red))
	term.SetCell(1, 0, NewCell("é", DefaultStyle()))
	term.ShowCursor(2, 0)
	term.Show()

	cells, w, _ := screen.GetContents()
	if w != 20 {
		t.Fatalf("width = %d, want 20", w)
	}
	if got := string(cells[0].Runes); got != "a" {
		t.Errorf("cell 0 = %q, want %q", got, "a")
	}
	if got := string(cells[1].Runes); got != "é" {
		t.Errorf("cell 1 = %q, want %q", got, "é")
	}
	fg, _, attrs := cells[0].Style.Decompose()
	if r, g, b := fg.RGB(); r != 255 || g != 0 || b != 0 {
		t.Errorf("foreground = (%d, %d, %d), want red", r, g, b)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold attribute lost")
	}

	got := term.GetCell(0, 0)
	if got.Text != "a" || got.Style.Foreground != ColorFromRGB(255, 0, 0) || !got.Style.Attributes.Has(AttrBold) {
		t.Errorf("GetCell(0, 0) = %+v", got)
	}

	if x, y, visible := screen.GetCursor(); x != 2 || y != 0 || !visible {
		t.Errorf("cursor = (%d, %d, %v), want (2, 0, true)", x, y, visible)
	}
}

func TestTerminalFill(t *testing.T) {
	term, screen := newSimTerminal(t)

	term.Fill(RectFromSize(1, 2, 2, 3), NewCell("#", DefaultStyle()))
	term.Show()

	cells, w, _ := screen.GetContents()
	if got := string(cells[1*w+2].Runes); got != "#" {
		t.Errorf("filled cell = %q", got)
	}
	if got := string(cells[1*w+5].Runes); got == "#" {
		t.Error("fill overran the rectangle")
	}
}

func TestTerminalKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want Event
	}{
		{"rune", tcell.KeyRune, 'x', tcell.ModNone, Event{Type: EventKey, Key: KeyRune, Rune: 'x'}},
		{"ctrl letter", tcell.KeyCtrlS, 0, tcell.ModCtrl, Event{Type: EventKey, Key: KeyRune, Rune: 's', Mod: ModCtrl}},
		{"ctrl rune", tcell.KeyRune, 'c', tcell.ModCtrl, Event{Type: EventKey, Key: KeyRune, Rune: 'c', Mod: ModCtrl}},
		{"ctrl shift", tcell.KeyRune, 'Z', tcell.ModCtrl | tcell.ModShift, Event{Type: EventKey, Key: KeyRune, Rune: 'z', Mod: ModCtrl | ModShift}},
		{"control code", tcell.KeyRune, 0x04, tcell.ModNone, Event{Type: EventKey, Key: KeyRune, Rune: 'd', Mod: ModCtrl}},
		{"ctrl slash", tcell.KeyUS, 0, tcell.ModCtrl, Event{Type: EventKey, Key: KeyRune, Rune: '/', Mod: ModCtrl}},
		{"tab", tcell.KeyTab, 0, tcell.ModNone, Event{Type: EventKey, Key: KeyTab}},
		{"backtab", tcell.KeyBacktab, 0, tcell.ModShift, Event{Type: EventKey, Key: KeyBacktab, Mod: ModShift}},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, Event{Type: EventKey, Key: KeyEnter}},
		{"backspace", tcell.KeyBackspace2, 0, tcell.ModNone, Event{Type: EventKey, Key: KeyBackspace}},
		{"shift left", tcell.KeyLeft, 0, tcell.ModShift, Event{Type: EventKey, Key: KeyLeft, Mod: ModShift}},
		{"ctrl up", tcell.KeyUp, 0, tcell.ModCtrl, Event{Type: EventKey, Key: KeyUp, Mod: ModCtrl}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertEvent(tcell.NewEventKey(tt.key, tt.r, tt.mod))
			if got != tt.want {
				t.Errorf("convertEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTerminalPollEvent(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectKey(tcell.KeyCtrlO, 0, tcell.ModCtrl)
	ev := term.PollEvent()
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'o' || !ev.Mod.Has(ModCtrl) {
		t.Errorf("PollEvent() = %+v, want Ctrl+o", ev)
	}

	screen.InjectMouse(3, 1, tcell.WheelDown, tcell.ModNone)
	ev = term.PollEvent()
	if ev.Type != EventMouse || ev.MouseButton != MouseWheelDown || ev.MouseX != 3 || ev.MouseY != 1 {
		t.Errorf("PollEvent() = %+v, want wheel down at (3, 1)", ev)
	}
}

func TestTerminalPostEvent(t *testing.T) {
	term, _ := newSimTerminal(t)

	type reload struct{ path string }
	term.PostEvent(Event{Type: EventInterrupt, Data: reload{path: "settings.toml"}})
	ev := term.PollEvent()
	if ev.Type != EventInterrupt {
		t.Fatalf("PollEvent() type = %v, want interrupt", ev.Type)
	}
	if r, ok := ev.Data.(reload); !ok || r.path != "settings.toml" {
		t.Errorf("interrupt payload = %#v", ev.Data)
	}

	term.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'y', Mod: ModCtrl})
	ev = term.PollEvent()
	if ev.Key != KeyRune || ev.Rune != 'y' || ev.Mod != ModCtrl {
		t.Errorf("posted key = %+v, want Ctrl+y", ev)
	}

	term.PostEvent(Event{Type: EventKey, Key: KeyDelete})
	if ev = term.PollEvent(); ev.Key != KeyDelete {
		t.Errorf("posted key = %+v, want Delete", ev)
	}
}
