package observable

// source is a vertex other vertices can depend on.
type source interface {
	// refresh brings the vertex up to date and returns its version.
	// The version changes exactly when the value changes.
	refresh() uint64
	addObserver(o observer)
	removeObserver(o observer)
}

// observer is a vertex that depends on sources.
type observer interface {
	// invalidate tells the observer one of its sources may have changed.
	invalidate()
}

type dependency struct {
	src     source
	version uint64
}

// Reader is the tracking context handed to compute functions. Reading a
// vertex through it returns the current value and records the dependency on
// behalf of the derived or autorun that owns it.
//
// A Reader is only valid while its compute function runs.
type Reader struct {
	g     *Graph
	owner observer
	deps  []dependency
	seen  map[source]struct{}
	done  bool
}

// use records src as a dependency and brings it up to date.
func (r *Reader) use(src source) {
	if r == nil {
		panic(ErrNoReader)
	}
	if r.done {
		panic(ErrStaleReader)
	}
	if _, ok := r.seen[src]; ok {
		return
	}
	if r.seen == nil {
		r.seen = make(map[source]struct{})
	}
	r.seen[src] = struct{}{}

	// Subscribe first so a derived source is observed, and therefore
	// cached, before it computes.
	if r.owner != nil {
		src.addObserver(r.owner)
	}
	version := src.refresh()
	r.deps = append(r.deps, dependency{src: src, version: version})
}

// Tracked reports whether reads through r record dependencies.
func (r *Reader) Tracked() bool {
	return r != nil && r.owner != nil
}

// reconcile drops the owner's subscriptions to sources it no longer reads.
func reconcile(owner observer, old []dependency, r *Reader) {
	for _, dep := range old {
		if _, ok := r.seen[dep.src]; !ok {
			dep.src.removeObserver(owner)
		}
	}
}

// changed reports whether any dependency moved past the recorded version.
// Sources are refreshed in read order, so a branch that is no longer taken
// is never recomputed.
func changed(deps []dependency) bool {
	for _, dep := range deps {
		if dep.src.refresh() != dep.version {
			return true
		}
	}
	return false
}

// observerSet is an insertion-ordered set of observers.
type observerSet struct {
	items []observer
}

func (s *observerSet) add(o observer) bool {
	for _, cur := range s.items {
		if cur == o {
			return false
		}
	}
	s.items = append(s.items, o)
	return true
}

func (s *observerSet) remove(o observer) bool {
	for i, cur := range s.items {
		if cur == o {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *observerSet) len() int {
	return len(s.items)
}

// invalidateAll notifies a snapshot of the observers.
func (s *observerSet) invalidateAll() {
	items := s.items
	for _, o := range items {
		o.invalidate()
	}
}
