package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/slate/internal/input/key"
)

// ErrUnknownAction is returned when binding a key to an action that does
// not exist.
var ErrUnknownAction = errors.New("unknown action")

// Action names an editor command.
type Action string

// Editing actions.
const (
	ActionDeleteBackward Action = "edit.deleteBackward"
	ActionDeleteForward  Action = "edit.deleteForward"
	ActionNewline        Action = "edit.newline"
	ActionIndent         Action = "edit.indent"
	ActionOutdent        Action = "edit.outdent"
	ActionDuplicate      Action = "edit.duplicate"
	ActionToggleComment  Action = "edit.toggleComment"
	ActionUndo           Action = "edit.undo"
	ActionRedo           Action = "edit.redo"
	ActionCopy           Action = "edit.copy"
	ActionCut            Action = "edit.cut"
	ActionPaste          Action = "edit.paste"
	ActionSelectAll      Action = "edit.selectAll"
)

// Cursor and view actions.
const (
	ActionMoveLeft        Action = "cursor.left"
	ActionMoveRight       Action = "cursor.right"
	ActionMoveUp          Action = "cursor.up"
	ActionMoveDown        Action = "cursor.down"
	ActionLineStart       Action = "cursor.lineStart"
	ActionLineEnd         Action = "cursor.lineEnd"
	ActionHardLineStart   Action = "cursor.hardLineStart"
	ActionHardLineEnd     Action = "cursor.hardLineEnd"
	ActionMidLine         Action = "cursor.midLine"
	ActionJumpTop         Action = "cursor.top"
	ActionJumpBottom      Action = "cursor.bottom"
	ActionGoToLine        Action = "cursor.goToLine"
	ActionSelectLeft      Action = "select.left"
	ActionSelectRight     Action = "select.right"
	ActionSelectUp        Action = "select.up"
	ActionSelectDown      Action = "select.down"
	ActionSelectLineStart Action = "select.lineStart"
	ActionSelectLineEnd   Action = "select.lineEnd"
	ActionSelectHardStart Action = "select.hardLineStart"
	ActionSelectHardEnd   Action = "select.hardLineEnd"
	ActionScrollUp        Action = "view.scrollUp"
	ActionScrollDown      Action = "view.scrollDown"
	ActionPageUp          Action = "view.pageUp"
	ActionPageDown        Action = "view.pageDown"
)

// File and project actions.
const (
	ActionSave   Action = "file.save"
	ActionReload Action = "file.reload"
	ActionFormat Action = "file.format"
	ActionBuild  Action = "project.build"
	ActionQuit   Action = "app.quit"
)

var allActions = []Action{
	ActionDeleteBackward, ActionDeleteForward, ActionNewline, ActionIndent,
	ActionOutdent, ActionDuplicate, ActionToggleComment, ActionUndo, ActionRedo,
	ActionCopy, ActionCut, ActionPaste, ActionSelectAll,
	ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown,
	ActionLineStart, ActionLineEnd, ActionHardLineStart, ActionHardLineEnd,
	ActionMidLine, ActionJumpTop, ActionJumpBottom, ActionGoToLine,
	ActionSelectLeft, ActionSelectRight, ActionSelectUp, ActionSelectDown,
	ActionSelectLineStart, ActionSelectLineEnd, ActionSelectHardStart, ActionSelectHardEnd,
	ActionScrollUp, ActionScrollDown, ActionPageUp, ActionPageDown,
	ActionSave, ActionReload, ActionFormat, ActionBuild, ActionQuit,
}

// Actions returns every known action.
func Actions() []Action {
	return append([]Action(nil), allActions...)
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	name = strings.TrimSpace(name)
	for _, a := range allActions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Binding is one key-to-action mapping.
type Binding struct {
	Key    key.Event
	Action Action
}

// Keymap holds key bindings. The zero value is not usable; use New or
// DefaultKeymap.
type Keymap struct {
	bindings map[key.Event]Action
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[key.Event]Action)}
}

// Bind binds the key specification spec to action, replacing any earlier
// binding of the same key.
func (k *Keymap) Bind(spec string, action Action) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return err
	}
	if _, err := ParseAction(string(action)); err != nil {
		return err
	}
	k.bindings[ev] = action
	return nil
}

// Unbind removes the binding of spec, if any.
func (k *Keymap) Unbind(spec string) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return err
	}
	delete(k.bindings, ev)
	return nil
}

// Lookup returns the action bound to ev.
func (k *Keymap) Lookup(ev key.Event) (Action, bool) {
	a, ok := k.bindings[ev.Normalize()]
	return a, ok
}

// Apply layers overrides, a map from key specification to action name, on
// top of the keymap. An empty action name unbinds the key. Every override
// is tried; the errors of the invalid ones are joined.
func (k *Keymap) Apply(overrides map[string]string) error {
	specs := make([]string, 0, len(overrides))
	for spec := range overrides {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	var errs []error
	for _, spec := range specs {
		name := strings.TrimSpace(overrides[spec])
		var err error
		if name == "" {
			err = k.Unbind(spec)
		} else {
			err = k.Bind(spec, Action(name))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", spec, err))
		}
	}
	return errors.Join(errs...)
}

// Bindings returns all bindings ordered by key.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for ev, a := range k.bindings {
		out = append(out, Binding{Key: ev, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}
