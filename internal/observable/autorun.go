package observable

import "github.com/dshills/inlineview/internal/event"

// autorun is a leaf of the graph that re-runs its effect when a dependency
// changes.
type autorun struct {
	g    *Graph
	name string
	fn   func(r *Reader)

	// store is cleared before every run; nil for plain autoruns.
	store *event.Store

	deps      []dependency
	ran       bool
	failed    bool
	scheduled bool
	disposed  bool
}

// Autorun runs fn immediately and again whenever a vertex it read changes.
// A panic raised by fn propagates to whoever triggered the run: the caller
// of Autorun for the first run, the caller of Set afterwards.
func Autorun(g *Graph, fn func(r *Reader), opts ...Option) event.Disposable {
	o := buildOptions(opts)
	a := &autorun{g: g, name: g.newName("autorun", o), fn: fn}
	a.execute()
	return event.OnceFunc(a.dispose)
}

// AutorunWithStore is Autorun with a Store that is cleared before each
// re-run and disposed with the autorun. Effects register what they create
// (view zones, subscriptions) in the store so the next run starts clean.
func AutorunWithStore(g *Graph, fn func(r *Reader, store *event.Store), opts ...Option) event.Disposable {
	o := buildOptions(opts)
	a := &autorun{g: g, name: g.newName("autorun", o), store: event.NewStore()}
	a.fn = func(r *Reader) { fn(r, a.store) }
	a.execute()
	return event.OnceFunc(a.dispose)
}

func (a *autorun) invalidate() {
	if a.scheduled || a.disposed {
		return
	}
	a.scheduled = true
	a.g.schedule(a)
}

func (a *autorun) run() {
	a.scheduled = false
	if a.disposed {
		return
	}
	if a.ran && !a.failed && !changed(a.deps) {
		return
	}
	a.execute()
}

func (a *autorun) execute() {
	if a.store != nil {
		a.store.Clear()
	}

	r := a.g.beginTracking(a)
	completed := false
	defer func() {
		reconcile(a, a.deps, r)
		a.deps = r.deps
		if a.disposed {
			// Disposed from inside its own effect.
			for _, dep := range a.deps {
				dep.src.removeObserver(a)
			}
			a.deps = nil
		}
		a.ran = true
		a.failed = !completed
		a.g.endTracking(r)
	}()

	a.g.trace("observable: %s running", a.name)
	a.fn(r)
	completed = true
}

func (a *autorun) dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	deps := a.deps
	a.deps = nil
	for _, dep := range deps {
		dep.src.removeObserver(a)
	}
	if a.store != nil {
		a.store.Dispose()
	}
}
