package layout

// State is the effective overlay state. It is inferred from a Geometry and
// never stored.
type State int

const (
	// Hidden means there is no geometry.
	Hidden State = iota

	// VisibleInline means the preview fits without horizontal scrolling.
	VisibleInline

	// VisibleScrolled means the host or the preview is scrolled horizontally.
	VisibleScrolled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case VisibleInline:
		return "visible-inline"
	case VisibleScrolled:
		return "visible-scrolled"
	default:
		return "unknown"
	}
}

// StateOf infers the state of g.
func StateOf(g *Geometry) State {
	switch {
	case g == nil:
		return Hidden
	case g.CodeScrollLeft > 0 || g.PreviewScrollLeft > 0:
		return VisibleScrolled
	default:
		return VisibleInline
	}
}
