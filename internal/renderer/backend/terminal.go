package backend

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	if cell.Text == "" {
		// Trailing half of a wide cluster; tcell covers it.
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(cell.Text)
	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, combc, style, width := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	text := string(mainc) + string(combc)
	return Cell{Text: text, Width: width, Style: convertTcellStyle(style)}
}

func (t *Terminal) Fill(rect ScreenRect, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(cell.Text)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	style := convertStyle(cell.Style)
	width, height := t.screen.Size()

	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.screen.SetContent(x, y, runes[0], runes[1:], style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

// PostEvent queues event. Key events are posted as tcell key events so
// they pass through the same conversion as typed keys; everything else
// travels as an interrupt payload.
func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	if event.Type == EventKey {
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
	} else {
		ev = tcell.NewEventInterrupt(event)
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	if s.Attributes.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(AttrReverse) {
		style = style.Reverse(true)
	}

	return style
}

// convertTcellStyle converts tcell.Style back to our Style.
func convertTcellStyle(ts tcell.Style) Style {
	fg, bg, attrs := ts.Decompose()

	s := Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
		Attributes: AttrNone,
	}

	if attrs&tcell.AttrBold != 0 {
		s.Attributes |= AttrBold
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes |= AttrDim
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attributes |= AttrItalic
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attributes |= AttrUnderline
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attributes |= AttrReverse
	}

	return s
}

// convertTcellColor converts tcell.Color to our Color.
func convertTcellColor(tc tcell.Color) Color {
	if tc == tcell.ColorDefault {
		return ColorDefault
	}
	r, g, b := tc.RGB()
	return ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, r, mod := convertKey(e)
		return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventPaste:
		// The pasted text arrives as key events between start and end.
		return Event{Type: EventPaste, PasteStart: e.Start()}

	case *tcell.EventInterrupt:
		if posted, ok := e.Data().(Event); ok {
			return posted
		}
		return Event{Type: EventInterrupt, Data: e.Data()}

	default:
		return Event{Type: EventNone}
	}
}

// specialKeys maps tcell keys without a printable rune.
var specialKeys = map[tcell.Key]Key{
	tcell.KeyBacktab: KeyBacktab,
	tcell.KeyDelete:  KeyDelete,
	tcell.KeyInsert:  KeyInsert,
	tcell.KeyHome:    KeyHome,
	tcell.KeyEnd:     KeyEnd,
	tcell.KeyPgUp:    KeyPageUp,
	tcell.KeyPgDn:    KeyPageDown,
	tcell.KeyUp:      KeyUp,
	tcell.KeyDown:    KeyDown,
	tcell.KeyLeft:    KeyLeft,
	tcell.KeyRight:   KeyRight,
	tcell.KeyF1:      KeyF1,
	tcell.KeyF2:      KeyF2,
	tcell.KeyF3:      KeyF3,
	tcell.KeyF4:      KeyF4,
	tcell.KeyF5:      KeyF5,
	tcell.KeyF6:      KeyF6,
	tcell.KeyF7:      KeyF7,
	tcell.KeyF8:      KeyF8,
	tcell.KeyF9:      KeyF9,
	tcell.KeyF10:     KeyF10,
	tcell.KeyF11:     KeyF11,
	tcell.KeyF12:     KeyF12,
}

// convertKey converts a tcell key event. Control characters are reported
// differently across terminals and tcell versions (as KeyCtrlX, as the
// ASCII control code, or as a rune with ModCtrl); all of them become
// KeyRune with ModCtrl and the lower case letter.
func convertKey(e *tcell.EventKey) (Key, rune, ModMask) {
	k := e.Key()
	mod := convertMod(e.Modifiers())

	switch {
	case k == tcell.KeyRune:
		r := e.Rune()
		if mod.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return KeyRune, r, mod
	case k == tcell.KeyTab:
		return KeyTab, 0, mod
	case k == tcell.KeyEnter:
		return KeyEnter, 0, mod
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return KeyBackspace, 0, mod
	case k == tcell.KeyEscape:
		return KeyEscape, 0, mod
	case k == tcell.KeyCtrlUnderscore || k == tcell.KeyUS:
		// Most terminals send Ctrl+/ as the unit separator.
		return KeyRune, '/', mod | ModCtrl
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return KeyRune, 'a' + rune(k-tcell.KeyCtrlA), mod | ModCtrl
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		return KeyRune, 'a' + rune(k-tcell.KeySOH), mod | ModCtrl
	}

	if sk, ok := specialKeys[k]; ok {
		return sk, 0, mod
	}
	return KeyNone, 0, mod
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyRune:
		return tcell.KeyRune
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	}
	for tk, sk := range specialKeys {
		if sk == k {
			return tk
		}
	}
	return tcell.KeyRune
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

// convertToTcellMod converts our ModMask to tcell.ModMask.
func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	if m&ModMeta != 0 {
		result |= tcell.ModMeta
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}
