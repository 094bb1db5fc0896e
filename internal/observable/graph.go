package observable

import "strconv"

// Logger receives debug traces from the graph.
type Logger interface {
	Debug(msg string, args ...any)
}

// maxFlushRounds bounds how many times queued updates may re-trigger
// autoruns within a single pass.
const maxFlushRounds = 1000

// Graph owns the bookkeeping shared by all vertices created on it: the
// tracking stack, the batch depth, autoruns waiting to run and updates that
// arrived while a computation was in progress.
type Graph struct {
	logger Logger

	stack      []*Reader
	batchDepth int
	flushing   bool

	pending []*autorun
	queued  []func()

	nextID uint64
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithLogger routes recompute and run traces to l.
func WithLogger(l Logger) GraphOption {
	return func(g *Graph) {
		g.logger = l
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Transaction runs fn with autorun execution deferred until fn returns.
// Every Set inside fn is applied immediately, but dependents observe the
// combined result exactly once. Transactions nest.
func (g *Graph) Transaction(fn func()) {
	g.batchDepth++
	defer func() {
		g.batchDepth--
		if g.batchDepth == 0 {
			g.flush()
		}
	}()
	fn()
}

// Untracked runs fn with a reader that records nothing. It lets plain code
// call APIs that take a *Reader.
func (g *Graph) Untracked(fn func(r *Reader)) {
	r := g.beginTracking(nil)
	defer g.endTracking(r)
	fn(r)
}

// busy reports whether a computation or a propagation pass is in progress.
func (g *Graph) busy() bool {
	return g.flushing || len(g.stack) > 0
}

// update applies fn now and propagates, or queues it if the graph is busy.
func (g *Graph) update(fn func()) {
	if g.busy() {
		g.queued = append(g.queued, fn)
		return
	}
	fn()
	g.flush()
}

func (g *Graph) schedule(a *autorun) {
	g.pending = append(g.pending, a)
}

// flush runs scheduled autoruns, then applies queued updates and repeats
// until nothing is left.
func (g *Graph) flush() {
	if g.flushing || g.batchDepth > 0 || len(g.stack) > 0 {
		return
	}
	g.flushing = true
	defer func() { g.flushing = false }()

	for round := 0; ; round++ {
		if round > maxFlushRounds {
			g.pending = nil
			g.queued = nil
			panic(ErrUpdateLoop)
		}
		for len(g.pending) > 0 {
			a := g.pending[0]
			g.pending = g.pending[1:]
			a.run()
		}
		if len(g.queued) == 0 {
			return
		}
		queued := g.queued
		g.queued = nil
		for _, fn := range queued {
			fn()
		}
	}
}

func (g *Graph) beginTracking(owner observer) *Reader {
	r := &Reader{g: g, owner: owner}
	g.stack = append(g.stack, r)
	return r
}

func (g *Graph) endTracking(r *Reader) {
	r.done = true
	if n := len(g.stack); n > 0 && g.stack[n-1] == r {
		g.stack = g.stack[:n-1]
	}
	if len(g.stack) == 0 && len(g.queued) > 0 {
		g.flush()
	}
}

func (g *Graph) newName(kind string, o options) string {
	if o.name != "" {
		return o.name
	}
	g.nextID++
	return kind + "#" + strconv.FormatUint(g.nextID, 10)
}

func (g *Graph) trace(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
