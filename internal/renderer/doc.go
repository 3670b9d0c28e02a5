// Package renderer draws an editor to a terminal.
//
// The renderer reads everything it shows from the editor's render
// accessors: wrapped visual lines, per-line highlight spans, selection spans
// and the cursor target. It owns no text state of its own.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│  View: gutter │ text │ status line      │
//	├─────────────────────────────────────────┤
//	│  layout (wrap) │ highlight (tokens)     │
//	├─────────────────────────────────────────┤
//	│  backend: Terminal (tcell) │ Null       │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	_ = term.Init()
//	r := renderer.New(term, highlight.DefaultTheme(), renderer.DefaultOptions())
//	r.SetStatus(renderer.Status{Left: "main.c"})
//	r.Render(editor)
package renderer
