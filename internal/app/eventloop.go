package app

import (
	"context"
	"errors"
	"strconv"

	"github.com/dshills/slate/internal/config"
	"github.com/dshills/slate/internal/input/key"
	"github.com/dshills/slate/internal/input/keymap"
	"github.com/dshills/slate/internal/renderer"
	"github.com/dshills/slate/internal/renderer/backend"
)

// wheelLines is how far one mouse wheel step scrolls.
const wheelLines = 3

// Run draws the document on b and processes its events until the user
// quits. b is initialized by Run and shut down before it returns.
func (a *App) Run(b backend.Backend) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := b.Init(); err != nil {
		return NewOperationError("init", "terminal", err)
	}
	defer b.Shutdown()

	opts := renderer.DefaultOptions()
	opts.TabWidth = a.settings.View.TabWidth
	r := renderer.New(b, a.theme, opts)

	a.mu.Lock()
	a.backend = b
	a.renderer = r
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.backend = nil
		a.mu.Unlock()
	}()

	if a.opts.WatchConfig {
		a.startWatcher()
	}

	for {
		a.render()
		if err := a.HandleEvent(b.PollEvent()); err != nil {
			if errors.Is(err, ErrQuit) {
				a.logger.Info("quit")
				return nil
			}
			return err
		}
	}
}

func (a *App) render() {
	if a.renderer == nil {
		return
	}
	a.renderer.SetStatus(a.Status())
	a.renderer.Render(a.doc.Editor)
}

// startWatcher watches the settings and project files and forwards their
// changes to the event loop.
func (a *App) startWatcher() {
	w, err := config.NewWatcher()
	if err != nil {
		a.logger.Warn("config watcher: %v", err)
		return
	}
	for _, path := range []string{a.settingsPath, a.project.Path} {
		if path == "" {
			continue
		}
		if err := w.Watch(path); err != nil {
			a.logger.Debug("not watching %s: %v", path, err)
		}
	}
	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()

	go func() {
		for {
			select {
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				a.post(backend.Event{Type: backend.EventInterrupt, Data: ev})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				a.logger.Warn("config watcher: %v", err)
			case <-a.done:
				return
			}
		}
	}()
}

// HandleEvent processes one backend event. It returns ErrQuit when the
// application should exit; failures of user operations are shown in the
// status line instead of being returned.
func (a *App) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		if a.renderer != nil {
			a.renderer.Resize(ev.Width, ev.Height)
		}
	case backend.EventKey:
		return a.handleKey(ev)
	case backend.EventMouse:
		a.handleMouse(ev)
	case backend.EventPaste:
		a.handlePaste(ev)
	case backend.EventInterrupt:
		return a.handleInterrupt(ev.Data)
	}
	return nil
}

func (a *App) handleKey(ev backend.Event) error {
	if a.pasting {
		a.collectPaste(ev)
		return nil
	}

	kev := convertToKeyEvent(ev)
	if a.jump.active {
		a.handleJumpKey(kev)
		return nil
	}
	if action, ok := a.keymap.Lookup(kev); ok {
		return a.Execute(action)
	}
	if kev.IsChar() {
		a.message = ""
		a.quitArmed = false
		a.doc.Editor.InsertText(string(kev.Rune))
		a.doc.Editor.EnsureCursorVisible()
	}
	return nil
}

// convertToKeyEvent converts a backend key event to a normalized key.Event.
func convertToKeyEvent(ev backend.Event) key.Event {
	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	switch ev.Key {
	case backend.KeyRune:
		return key.NewRuneEvent(ev.Rune, mods).Normalize()
	case backend.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift))
	}
	return key.NewSpecialEvent(mapBackendKey(ev.Key), mods)
}

// mapBackendKey maps a non-rune backend.Key to a key.Key.
func mapBackendKey(bk backend.Key) key.Key {
	switch bk {
	case backend.KeyEscape:
		return key.KeyEscape
	case backend.KeyEnter:
		return key.KeyEnter
	case backend.KeyTab:
		return key.KeyTab
	case backend.KeyBackspace:
		return key.KeyBackspace
	case backend.KeyDelete:
		return key.KeyDelete
	case backend.KeyInsert:
		return key.KeyInsert
	case backend.KeyHome:
		return key.KeyHome
	case backend.KeyEnd:
		return key.KeyEnd
	case backend.KeyPageUp:
		return key.KeyPageUp
	case backend.KeyPageDown:
		return key.KeyPageDown
	case backend.KeyUp:
		return key.KeyUp
	case backend.KeyDown:
		return key.KeyDown
	case backend.KeyLeft:
		return key.KeyLeft
	case backend.KeyRight:
		return key.KeyRight
	}
	if bk >= backend.KeyF1 && bk <= backend.KeyF12 {
		return key.KeyF1 + key.Key(bk-backend.KeyF1)
	}
	return key.KeyNone
}

// Execute performs action on the document. It returns ErrQuit when the
// action ends the application.
func (a *App) Execute(action keymap.Action) error {
	ed := a.doc.Editor
	if action != keymap.ActionQuit {
		a.quitArmed = false
	}
	a.message = ""
	follow := true

	switch action {
	case keymap.ActionMoveLeft, keymap.ActionSelectLeft:
		ed.MoveLeft(action == keymap.ActionSelectLeft)
	case keymap.ActionMoveRight, keymap.ActionSelectRight:
		ed.MoveRight(action == keymap.ActionSelectRight)
	case keymap.ActionMoveUp, keymap.ActionSelectUp:
		ed.MoveUp(action == keymap.ActionSelectUp)
	case keymap.ActionMoveDown, keymap.ActionSelectDown:
		ed.MoveDown(action == keymap.ActionSelectDown)
	case keymap.ActionLineStart, keymap.ActionSelectLineStart:
		ed.Home(action == keymap.ActionSelectLineStart)
	case keymap.ActionLineEnd, keymap.ActionSelectLineEnd:
		ed.End(action == keymap.ActionSelectLineEnd)
	case keymap.ActionHardLineStart, keymap.ActionSelectHardStart:
		ed.HardLineStart(action == keymap.ActionSelectHardStart)
	case keymap.ActionHardLineEnd, keymap.ActionSelectHardEnd:
		ed.HardLineEnd(action == keymap.ActionSelectHardEnd)
	case keymap.ActionMidLine:
		ed.MidLine()
	case keymap.ActionJumpTop:
		ed.JumpToTop()
	case keymap.ActionJumpBottom:
		ed.JumpToBottom()
	case keymap.ActionGoToLine:
		a.jump = lineJump{active: true}
		follow = false
	case keymap.ActionScrollUp:
		ed.ScrollBy(-1)
		follow = false
	case keymap.ActionScrollDown:
		ed.ScrollBy(1)
		follow = false
	case keymap.ActionPageUp:
		a.page(-1)
	case keymap.ActionPageDown:
		a.page(1)

	case keymap.ActionDeleteBackward:
		ed.DeleteBackward()
	case keymap.ActionDeleteForward:
		ed.DeleteForward()
	case keymap.ActionNewline:
		ed.NewLine()
	case keymap.ActionIndent:
		ed.Indent()
	case keymap.ActionOutdent:
		ed.Outdent()
	case keymap.ActionDuplicate:
		ed.Duplicate()
	case keymap.ActionToggleComment:
		ed.ToggleComment()
	case keymap.ActionUndo:
		snap, _ := ed.PeekUndo()
		if err := ed.Undo(); err != nil {
			a.message = err.Error()
		} else if snap.Description != "" {
			a.message = "undo " + snap.Description
		}
	case keymap.ActionRedo:
		if err := ed.Redo(); err != nil {
			a.message = err.Error()
		}
	case keymap.ActionSelectAll:
		ed.SelectAll()
		follow = false
	case keymap.ActionCopy:
		if ed.HasSelection() {
			a.clipboard.Write(ed.SelectedText())
		}
		follow = false
	case keymap.ActionCut:
		if ed.HasSelection() {
			a.clipboard.Write(ed.Cut())
		}
	case keymap.ActionPaste:
		if text := a.clipboard.Read(); text != "" {
			ed.Paste(text)
		}

	case keymap.ActionSave:
		a.report(a.Save(context.Background()), "saved "+a.doc.Name)
	case keymap.ActionReload:
		a.report(a.Reload(), "reloaded "+a.doc.Name)
	case keymap.ActionFormat:
		a.report(a.Format(context.Background()), "formatted")
	case keymap.ActionBuild:
		_, err := a.Build()
		a.report(err, "building...")
		follow = false
	case keymap.ActionQuit:
		return a.quit()
	}

	if follow {
		ed.EnsureCursorVisible()
	}
	return nil
}

// lineJump is the state of the go-to-line prompt.
type lineJump struct {
	active bool
	digits string
}

// maxLineDigits bounds the go-to-line input.
const maxLineDigits = 9

// handleJumpKey edits the go-to-line prompt. Enter jumps to the one-based
// line typed so far; Escape and Enter on an empty prompt cancel.
func (a *App) handleJumpKey(kev key.Event) {
	switch {
	case kev.IsChar() && kev.Rune >= '0' && kev.Rune <= '9':
		if len(a.jump.digits) < maxLineDigits {
			a.jump.digits += string(kev.Rune)
		}
	case kev.Key == key.KeyBackspace:
		if n := len(a.jump.digits); n > 0 {
			a.jump.digits = a.jump.digits[:n-1]
		}
	case kev.Key == key.KeyEnter:
		digits := a.jump.digits
		a.jump = lineJump{}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return
		}
		ed := a.doc.Editor
		ed.JumpTo(ed.LineOffset(n - 1))
	case kev.Key == key.KeyEscape:
		a.jump = lineJump{}
	}
}

// report sets the status message to the error, or to ok when err is nil
// and no earlier step left a message.
func (a *App) report(err error, ok string) {
	switch {
	case err != nil:
		a.message = firstLine(err.Error())
	case a.message == "":
		a.message = ok
	}
}

// page moves the cursor by one screen of visual lines.
func (a *App) page(dir int) {
	ed := a.doc.Editor
	_, h := ed.Viewport()
	rows := 1
	if lh := ed.Metrics().LineHeight(); lh > 0 {
		rows = max(int(h/lh)-1, 1)
	}
	for i := 0; i < rows; i++ {
		if dir < 0 {
			ed.MoveUp(false)
		} else {
			ed.MoveDown(false)
		}
	}
}

// quit ends the application. With unsaved changes the first request only
// warns.
func (a *App) quit() error {
	if a.doc.IsModified() && !a.quitArmed {
		a.quitArmed = true
		a.message = ErrUnsavedChanges.Error() + ", press again to quit"
		return nil
	}
	return ErrQuit
}

func (a *App) handleMouse(ev backend.Event) {
	ed := a.doc.Editor
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		ed.ScrollBy(-wheelLines)
	case backend.MouseWheelDown:
		ed.ScrollBy(wheelLines)
	case backend.MouseLeft:
		if a.renderer == nil {
			return
		}
		off, ok := a.renderer.View().OffsetAt(ed, ev.MouseX, ev.MouseY)
		if !ok {
			return
		}
		// Motion with the button held extends the selection.
		if a.mouseDown || ev.Mod.Has(backend.ModShift) {
			ed.SetSelection(ed.Selection().Anchor, off)
		} else {
			ed.SetCursor(off)
		}
		a.mouseDown = true
		ed.EnsureCursorVisible()
	case backend.MouseNone:
		a.mouseDown = false
	}
}

func (a *App) handlePaste(ev backend.Event) {
	if ev.PasteStart {
		a.pasting = true
		a.paste.Reset()
		return
	}
	a.pasting = false
	text := a.paste.String()
	a.paste.Reset()
	if text != "" {
		a.doc.Editor.Paste(text)
		a.doc.Editor.EnsureCursorVisible()
	}
}

// collectPaste accumulates the key events of a bracketed paste.
func (a *App) collectPaste(ev backend.Event) {
	switch ev.Key {
	case backend.KeyRune:
		a.paste.WriteRune(ev.Rune)
	case backend.KeyEnter:
		a.paste.WriteByte('\n')
	case backend.KeyTab:
		a.paste.WriteByte('\t')
	}
}

func (a *App) handleInterrupt(data any) error {
	switch d := data.(type) {
	case quitRequest:
		return ErrQuit
	case config.Event:
		a.message = ""
		switch d.Path {
		case a.settingsPath:
			a.ReloadSettings()
			if a.message == "" {
				a.message = "settings reloaded"
			}
		case a.project.Path:
			a.ReloadProject()
			if a.message == "" {
				a.message = "project config reloaded"
			}
		}
	case BuildResult:
		if d.Succeeded() {
			a.message = "build succeeded"
		} else {
			a.message = "build failed: " + lastLine(d.Output)
		}
	}
	return nil
}
