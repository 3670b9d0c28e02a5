package keymap

// defaultBindings are the standard key bindings.
//
// Ctrl+M arrives as Enter on terminals without extended key reporting, so
// the mid-line jump is also bound to Alt+M.
var defaultBindings = []struct {
	spec   string
	action Action
}{
	// Editing
	{"Backspace", ActionDeleteBackward},
	{"Delete", ActionDeleteForward},
	{"Enter", ActionNewline},
	{"Tab", ActionIndent},
	{"Shift+Tab", ActionOutdent},
	{"Ctrl+D", ActionDuplicate},
	{"Ctrl+/", ActionToggleComment},
	{"Ctrl+Z", ActionUndo},
	{"Ctrl+Shift+Z", ActionRedo},
	{"Ctrl+Y", ActionRedo},
	{"Ctrl+C", ActionCopy},
	{"Ctrl+X", ActionCut},
	{"Ctrl+V", ActionPaste},
	{"Ctrl+A", ActionSelectAll},

	// Movement
	{"Left", ActionMoveLeft},
	{"Right", ActionMoveRight},
	{"Up", ActionMoveUp},
	{"Down", ActionMoveDown},
	{"Home", ActionLineStart},
	{"End", ActionLineEnd},
	{"Alt+Home", ActionHardLineStart},
	{"Alt+End", ActionHardLineEnd},
	{"Ctrl+M", ActionMidLine},
	{"Alt+M", ActionMidLine},
	{"Ctrl+Home", ActionJumpTop},
	{"Ctrl+End", ActionJumpBottom},
	{"Ctrl+G", ActionGoToLine},

	// Selection
	{"Shift+Left", ActionSelectLeft},
	{"Shift+Right", ActionSelectRight},
	{"Shift+Up", ActionSelectUp},
	{"Shift+Down", ActionSelectDown},
	{"Shift+Home", ActionSelectLineStart},
	{"Shift+End", ActionSelectLineEnd},
	{"Alt+Shift+Home", ActionSelectHardStart},
	{"Alt+Shift+End", ActionSelectHardEnd},

	// View
	{"Ctrl+Up", ActionScrollUp},
	{"Ctrl+Down", ActionScrollDown},
	{"PageUp", ActionPageUp},
	{"PageDown", ActionPageDown},

	// Files
	{"Ctrl+S", ActionSave},
	{"Ctrl+O", ActionReload},
	{"Ctrl+B", ActionBuild},
	{"Alt+F", ActionFormat},
	{"Ctrl+Q", ActionQuit},
}

// DefaultKeymap returns a keymap with the standard bindings.
func DefaultKeymap() *Keymap {
	k := New()
	for _, b := range defaultBindings {
		if err := k.Bind(b.spec, b.action); err != nil {
			panic("keymap: invalid default binding " + b.spec + ": " + err.Error())
		}
	}
	return k
}
