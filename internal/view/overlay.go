package view

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/inlineview/internal/event"
	"github.com/dshills/inlineview/internal/geom"
	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/observable"
	"github.com/dshills/inlineview/internal/theme"
)

// Element classes of the overlay tree.
const (
	ClassRoot     = "inline-edits-side-by-side"
	ClassOriginal = "inline-edits-original"
	ClassModified = "inline-edits-modified"
	ClassShadow   = "inline-edits-shadow"
)

// Logger receives overlay traces.
type Logger interface {
	Debug(msg string, args ...any)
}

// HostEditor is the editor the overlay is drawn over.
type HostEditor interface {
	host.Editor
	host.Writer
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLogger routes view-zone and render traces to l.
func WithLogger(l Logger) Option {
	return func(o *Overlay) {
		o.logger = l
	}
}

// Overlay keeps the preview editor and the host's view zones in line with
// the layout, and publishes the element tree to draw.
type Overlay struct {
	g       *observable.Graph
	engine  *layout.Engine
	edit    observable.Readable[*inlineedit.Descriptor]
	editor  HostEditor
	preview host.PreviewEditor
	logger  Logger

	colors map[theme.Key]observable.Readable[colorful.Color]
	tree   *observable.Derived[*Node]

	zoneID host.ZoneID
	zone   host.ViewZone

	onDidRender event.Emitter[*Node]
	store       *event.Store
}

// NewOverlay starts the overlay. Call Dispose to stop it and release its
// view zone.
func NewOverlay(g *observable.Graph, engine *layout.Engine, edit observable.Readable[*inlineedit.Descriptor],
	editor HostEditor, preview host.PreviewEditor, themes *theme.Service, opts ...Option) *Overlay {
	o := &Overlay{
		g:       g,
		engine:  engine,
		edit:    edit,
		editor:  editor,
		preview: preview,
		colors:  make(map[theme.Key]observable.Readable[colorful.Color]),
		store:   event.NewStore(),
	}
	for _, opt := range opts {
		opt(o)
	}
	for _, key := range []theme.Key{theme.OriginalBackground, theme.OriginalBorder,
		theme.ModifiedBorder, theme.PreviewBackground, theme.Shadow} {
		o.colors[key] = themes.Color(g, key)
	}

	o.tree = observable.NewDerived(g, o.buildTree, observable.WithName("view.tree"), observable.StructuralEquality())

	// Registered first so it runs after the autoruns are gone.
	o.store.AddFunc(o.removeZone)
	o.store.Add(observable.Autorun(g, o.syncHiddenAreas, observable.WithName("view.hiddenAreas")))
	o.store.Add(observable.Autorun(g, o.syncPreview, observable.WithName("view.preview")))
	o.store.Add(observable.Autorun(g, o.syncViewZone, observable.WithName("view.zone")))
	o.store.Add(observable.Autorun(g, func(r *observable.Reader) {
		tree := o.tree.Read(r)
		o.debug("view: render %s", tree.Class)
		o.onDidRender.Fire(tree)
	}, observable.WithName("view.render")))
	return o
}

// Tree is the element tree for the current geometry.
func (o *Overlay) Tree() observable.Readable[*Node] {
	return o.tree
}

// OnDidRender fires with every new tree.
func (o *Overlay) OnDidRender() event.Source[*Node] {
	return &o.onDidRender
}

// Dispose stops all autoruns and removes the view zone.
func (o *Overlay) Dispose() {
	o.store.Dispose()
	o.tree.Dispose()
}

func (o *Overlay) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

// syncHiddenAreas hides every preview line outside the replacement.
func (o *Overlay) syncHiddenAreas(r *observable.Reader) {
	edit := o.edit.Read(r)
	if edit == nil {
		o.preview.SetHiddenAreas(nil)
		return
	}
	o.preview.SetHiddenAreas(edit.Modified.Complement(o.preview.LineCount(r)))
}

// syncPreview scrolls and sizes the preview to the edit rectangle.
func (o *Overlay) syncPreview(r *observable.Reader) {
	geo := o.engine.Geometry().Read(r)
	edit := o.edit.Read(r)
	if geo == nil || edit == nil {
		o.preview.Resize(0, 0)
		return
	}
	top := 0
	if !edit.Modified.IsEmpty() {
		top, _ = o.preview.TopForLine(r, edit.Modified.Start)
	}
	o.preview.SetScrollLeft(geo.PreviewScrollLeft)
	o.preview.SetScrollTop(top)
	o.preview.Resize(geo.PreviewWidth, geo.EditRect.Height())
}

// syncViewZone reserves room below the original lines when the replacement
// is taller than them.
func (o *Overlay) syncViewZone(r *observable.Reader) {
	in := o.engine.Input().Read(r)
	edit := o.edit.Read(r)

	var want host.ViewZone
	if in != nil && edit != nil {
		extra := in.PreviewHeight - (in.CodeBottom - in.CodeTop)
		if extra > 0 {
			// Original.Last() is Start-1 for an insertion, the line the
			// preview opens under.
			after := edit.Original.Last()
			want = host.ViewZone{AfterLine: after, Height: extra}
		}
	}
	if want == o.zone {
		return
	}
	o.removeZone()
	if want.Height > 0 {
		o.zoneID = o.editor.AddViewZone(want)
		o.zone = want
		o.debug("view: zone %s after line %d (%dpx)", o.zoneID, want.AfterLine, want.Height)
	}
}

func (o *Overlay) removeZone() {
	if o.zoneID == "" {
		return
	}
	o.editor.RemoveViewZone(o.zoneID)
	o.zoneID = ""
	o.zone = host.ViewZone{}
}

func (o *Overlay) color(r *observable.Reader, key theme.Key) string {
	return Hex(o.colors[key].Read(r))
}

// buildTree lays out the overlay elements relative to the clip rectangle.
func (o *Overlay) buildTree(r *observable.Reader) *Node {
	geo := o.engine.Geometry().Read(r)
	if geo == nil {
		return Div(ClassRoot, map[string]string{"display": "none"})
	}

	clip := geo.Clip
	rel := func(rect geom.Rect) geom.Rect {
		return rect.TranslateX(-clip.Left).TranslateY(-clip.Top)
	}

	original := Box(rel(geo.CodeRect))
	original["background-color"] = o.color(r, theme.OriginalBackground)
	original["border"] = "1px solid " + o.color(r, theme.OriginalBorder)
	if geo.IsInsertion {
		original["border-width"] = "0"
	}

	modified := Box(rel(geo.EditRect))
	modified["background-color"] = o.color(r, theme.PreviewBackground)
	modified["border"] = "1px solid " + o.color(r, theme.ModifiedBorder)

	children := []*Node{Div(ClassOriginal, original), Div(ClassModified, modified)}
	if geo.ShouldShowShadow {
		shadow := Box(rel(geom.FromLeftTopWidthHeight(geo.EditRect.Left-geo.Gap, geo.EditRect.Top, geo.Gap, geo.EditRect.Height())))
		shadow["box-shadow"] = o.color(r, theme.Shadow) + " -6px 0 6px -6px inset"
		children = append(children, Div(ClassShadow, shadow))
	}

	root := Box(clip)
	root["overflow"] = "hidden"
	root["pointer-events"] = "none"
	return Div(ClassRoot, root, children...)
}
