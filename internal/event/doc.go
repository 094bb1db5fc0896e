// Package event provides the push side of the inline preview: lifecycle
// handles (Disposable, Store) and a small synchronous, typed Emitter.
//
// Emitters deliver events on the caller's goroutine in subscription order.
// They are the bridge between imperative sources (scroll handlers, theme
// switches, configuration reloads) and the observable graph, which consumes
// them through observable.FromEvent.
//
// # Basic Usage
//
//	var onScroll event.Emitter[int]
//	sub := onScroll.Subscribe(func(top int) { fmt.Println(top) })
//	defer sub.Dispose()
//	onScroll.Fire(120)
//
// # Ownership
//
// A Store owns a set of disposables and releases them together. Components
// add every subscription they create to their own Store and dispose the store
// when they are torn down.
package event
