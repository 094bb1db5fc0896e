// Package layout positions the side-by-side inline edit preview.
//
// Compute is a pure function from an Input snapshot to a Geometry. Engine
// wires it into an observable graph: it reads host editor state through
// deriveds, so the geometry re-derives whenever scrolling, metrics, the
// cursor or the edit change, and stays cached while nothing does.
//
// A nil Geometry means the overlay is hidden. That is the normal result for
// missing data, such as a range outside the current document.
package layout
