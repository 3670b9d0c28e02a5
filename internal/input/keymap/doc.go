// Package keymap maps key presses to editor actions.
//
// A Keymap holds one action per normalized key event. DefaultKeymap
// provides the standard bindings; user overrides from the settings file
// are layered on top with Apply, where an empty action unbinds a key.
//
// # Key Specifications
//
// Keys are written in the formats accepted by key.Parse:
//
//	"Ctrl+S"        - Ctrl+S (readable notation)
//	"<C-s>"         - Ctrl+S (angle bracket notation)
//	"Shift+Tab"     - Shift+Tab
//	"Ctrl+Shift+Z"  - Ctrl+Shift+Z
package keymap
