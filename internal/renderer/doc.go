// Package renderer paints the host editor and the side-by-side inline edit
// preview onto a cell backend.
//
// The layout engine works in pixels. The Painter maps pixels to cells with
// the editor's character width and line height, so a terminal host whose
// metrics are one cell per character lines up exactly.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│       Painter (autorun on the graph)    │
//	├─────────────────────────────────────────┤
//	│  Editor text │ Gutter │ Overlay boxes   │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend         │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	p := renderer.New(g, term, editor, preview, engine, themes)
//	p.Start()
//	defer p.Dispose()
package renderer
