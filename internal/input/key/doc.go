// Package key provides key event types and parsing for the input system.
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// # Key Specifications
//
// Key specifications can be written in two formats:
//
//   - With modifiers: "Ctrl+S", "Shift+Tab", "Ctrl+Shift+Z"
//   - Vim-style: "<C-s>", "<S-Tab>", "<C-S-z>", "<CR>"
//
// Parsed specifications are normalized, so Parse("Ctrl+S") compares equal
// to the normalized Event of pressing Ctrl and s.
package key
