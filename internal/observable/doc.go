// Package observable implements the dependency-tracking graph that drives the
// inline preview layout.
//
// The graph has three kinds of vertices:
//
//   - Value: a mutable cell. Set replaces the value and notifies dependents.
//   - Derived: a cached pure function of other vertices. Dependencies are
//     discovered while the function runs, through the Reader it receives.
//   - Autorun: a side effect that re-runs whenever something it read changed.
//
// # Tracking
//
// Every compute function receives a *Reader. Calling x.Read(r) returns the
// current value of x and records the edge. The set of edges is rebuilt on
// every run, so branches that stop reading a vertex stop depending on it.
//
//	g := observable.NewGraph()
//	width := observable.NewValue(g, 80)
//	half := observable.NewDerived(g, func(r *observable.Reader) int {
//	    return width.Read(r) / 2
//	})
//	d := observable.Autorun(g, func(r *observable.Reader) {
//	    fmt.Println(half.Read(r))
//	})
//	defer d.Dispose()
//	width.Set(100) // prints 50
//
// # Propagation
//
// Set marks dependents possibly stale and then runs the scheduled autoruns
// before returning. Deriveds are recomputed lazily when read; each keeps the
// version of every dependency it saw, so a derived recomputes only when one
// of those versions moved. Sets issued while an autorun or derived is running
// are queued and applied after the current pass.
//
// A Graph is not safe for concurrent use. All Set and Read calls must happen
// on the goroutine that owns the graph.
package observable
