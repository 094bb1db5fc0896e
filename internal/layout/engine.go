package layout

import (
	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/observable"
)

// CursorOffset is the text-area offset of a cursor that sits on the edit.
// OK is false when the cursor is elsewhere.
type CursorOffset struct {
	Offset int
	OK     bool
}

// maxWidth remembers the widest display line seen for one display range, so
// the preview does not jump left while lines are shortened.
type maxWidth struct {
	key   inlineedit.LineRange
	width int
	ok    bool
}

// Engine derives the overlay geometry from a host editor, the preview editor
// and the current edit. All values are lazy: nothing is computed until read,
// and nothing stays subscribed once unobserved.
type Engine struct {
	editor  host.Editor
	preview host.Editor
	edit    observable.Readable[*inlineedit.Descriptor]
	params  observable.Readable[Params]

	cursor       *observable.Derived[CursorOffset]
	codeMaxWidth *observable.Derived[maxWidth]
	codeWidth    *observable.Derived[int]
	previewWidth *observable.Derived[int]
	input        *observable.Derived[*Input]
	geometry     *observable.Derived[*Geometry]
	state        *observable.Derived[State]
}

// New creates an engine. edit holds nil while no suggestion is shown.
func New(g *observable.Graph, editor, preview host.Editor, edit observable.Readable[*inlineedit.Descriptor], params observable.Readable[Params]) *Engine {
	e := &Engine{editor: editor, preview: preview, edit: edit, params: params}

	e.cursor = observable.NewDerived(g, e.cursorIfTouchesEdit, observable.WithName("layout.cursor"))
	e.codeMaxWidth = observable.NewDerivedWithCache(g, e.maxCodeWidth, observable.WithName("layout.codeMaxWidth"))
	e.codeWidth = observable.Map(g, observable.Readable[maxWidth](e.codeMaxWidth),
		func(m maxWidth) int { return m.width }, observable.WithName("layout.codeWidth"))
	e.previewWidth = observable.NewDerived(g, e.previewContentWidth, observable.WithName("layout.previewWidth"))
	e.input = observable.NewDerived(g, e.computeInput,
		observable.WithName("layout.input"),
		observable.WithEquality(func(a, b *Input) bool {
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		}))
	e.geometry = observable.NewDerived(g, func(r *observable.Reader) *Geometry {
		in := e.input.Read(r)
		if in == nil {
			return nil
		}
		return Compute(*in, e.params.Read(r))
	}, observable.WithName("layout.geometry"), observable.WithEquality(Equal))
	e.state = observable.Map(g, observable.Readable[*Geometry](e.geometry), StateOf, observable.WithName("layout.state"))
	return e
}

// CursorIfTouchesEdit is the cursor offset while the cursor is on the edit.
func (e *Engine) CursorIfTouchesEdit() observable.Readable[CursorOffset] { return e.cursor }

// MaxCodeWidth is the widest display line, never shrinking for the same
// display range.
func (e *Engine) MaxCodeWidth() observable.Readable[int] { return e.codeWidth }

// PreviewContentWidth is the widest replacement line.
func (e *Engine) PreviewContentWidth() observable.Readable[int] { return e.previewWidth }

// Input is the snapshot fed to Compute, nil when data is missing.
func (e *Engine) Input() observable.Readable[*Input] { return e.input }

// Geometry is the overlay placement, nil while hidden.
func (e *Engine) Geometry() observable.Readable[*Geometry] { return e.geometry }

// State is the inferred overlay state.
func (e *Engine) State() observable.Readable[State] { return e.state }

// Dispose releases every derived the engine owns.
func (e *Engine) Dispose() {
	e.state.Dispose()
	e.geometry.Dispose()
	e.input.Dispose()
	e.previewWidth.Dispose()
	e.codeWidth.Dispose()
	e.codeMaxWidth.Dispose()
	e.cursor.Dispose()
}

func (e *Engine) cursorIfTouchesEdit(r *observable.Reader) CursorOffset {
	edit := e.edit.Read(r)
	if edit == nil {
		return CursorOffset{}
	}
	pos := e.editor.Cursor().Read(r)
	if !pos.IsValid() || !edit.TouchesLine(pos.Line) {
		return CursorOffset{}
	}
	off, ok := e.editor.OffsetForColumn(r, pos)
	if !ok {
		return CursorOffset{}
	}
	return CursorOffset{Offset: off, OK: true}
}

func (e *Engine) maxCodeWidth(r *observable.Reader, prev maxWidth, hasPrev bool) maxWidth {
	edit := e.edit.Read(r)
	if edit == nil {
		return maxWidth{}
	}
	w, ok := e.editor.ContentWidthInRange(r, edit.DisplayRange)
	if !ok {
		return maxWidth{key: edit.DisplayRange}
	}
	if hasPrev && prev.ok && prev.key == edit.DisplayRange {
		w = max(w, prev.width)
	}
	return maxWidth{key: edit.DisplayRange, width: w, ok: true}
}

func (e *Engine) previewContentWidth(r *observable.Reader) int {
	edit := e.edit.Read(r)
	if edit == nil || edit.Modified.IsEmpty() {
		return 0
	}
	w, ok := e.preview.ContentWidthInRange(r, edit.Modified)
	if !ok {
		return 0
	}
	return w
}

func (e *Engine) computeInput(r *observable.Reader) *Input {
	edit := e.edit.Read(r)
	if edit == nil {
		return nil
	}
	layout := e.editor.Layout().Read(r)
	if layout.Width <= 0 || layout.Height <= 0 {
		return nil
	}

	top, ok := e.editor.TopForLine(r, edit.Original.Start)
	if !ok {
		return nil
	}
	bottom := top
	if edit.IsInsertion() {
		// The insertion opens below the previous line, where its view zone goes.
		top = 0
		if edit.Original.Start > 1 {
			if top, ok = e.editor.BottomForLine(r, edit.Original.Start-1); !ok {
				return nil
			}
		}
		bottom = top
	} else if bottom, ok = e.editor.BottomForLine(r, edit.Original.Last()); !ok {
		return nil
	}

	code := e.codeMaxWidth.Read(r)
	if !code.ok {
		return nil
	}

	previewHeight := 0
	if !edit.Modified.IsEmpty() {
		if previewHeight, ok = e.preview.HeightOfRange(r, edit.Modified); !ok {
			return nil
		}
	}

	cursor := e.cursor.Read(r)
	return &Input{
		Layout:              layout,
		Window:              e.editor.Window().Read(r),
		ScrollLeft:          e.editor.ScrollLeft().Read(r),
		ScrollTop:           e.editor.ScrollTop().Read(r),
		StickyScrollHeight:  e.editor.StickyScrollHeight().Read(r),
		CodeTop:             top,
		CodeBottom:          bottom,
		CodeMaxWidth:        code.width,
		PreviewContentWidth: e.previewWidth.Read(r),
		PreviewHeight:       previewHeight,
		CursorOffset:        cursor.Offset,
		HasCursor:           cursor.OK,
		IsInsertion:         edit.IsInsertion(),
	}
}
