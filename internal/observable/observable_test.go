package observable

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/inlineview/internal/event"
)

func TestValueGetSet(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 1)

	if got := v.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	v.Set(2)
	if got := v.Get(); got != 2 {
		t.Errorf("Get() after Set = %d, want 2", got)
	}
}

func TestDerivedTracksDependencies(t *testing.T) {
	g := NewGraph()
	a := NewValue(g, 2)
	b := NewValue(g, 3)
	sum := NewDerived(g, func(r *Reader) int { return a.Read(r) + b.Read(r) })

	var seen []int
	d := Autorun(g, func(r *Reader) { seen = append(seen, sum.Read(r)) })
	defer d.Dispose()

	a.Set(10)
	b.Set(20)

	want := []int{5, 13, 30}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("autorun saw %v, want %v", seen, want)
	}
}

func TestDerivedCachesWhileObserved(t *testing.T) {
	g := NewGraph()
	a := NewValue(g, 1)
	computes := 0
	double := NewDerived(g, func(r *Reader) int {
		computes++
		return a.Read(r) * 2
	})

	d := Autorun(g, func(r *Reader) { double.Read(r) })
	defer d.Dispose()

	for i := 0; i < 5; i++ {
		if got := double.Get(); got != 2 {
			t.Fatalf("Get() = %d, want 2", got)
		}
	}
	if computes != 1 {
		t.Errorf("computes = %d, want 1", computes)
	}

	a.Set(4)
	if got := double.Get(); got != 8 {
		t.Errorf("Get() = %d, want 8", got)
	}
	if computes != 2 {
		t.Errorf("computes after Set = %d, want 2", computes)
	}
}

func TestUnobservedDerivedRecomputesOnGet(t *testing.T) {
	g := NewGraph()
	a := NewValue(g, 1)
	computes := 0
	d := NewDerived(g, func(r *Reader) int {
		computes++
		return a.Read(r)
	})

	d.Get()
	d.Get()
	if computes != 2 {
		t.Errorf("computes = %d, want 2", computes)
	}
	if a.observers.len() != 0 {
		t.Errorf("unobserved derived subscribed to %d sources, want 0", a.observers.len())
	}
}

func TestGlitchFreeDiamond(t *testing.T) {
	// a feeds both b and c; the autorun reads b and c and must never see
	// one updated and the other stale.
	g := NewGraph()
	a := NewValue(g, 1)
	b := NewDerived(g, func(r *Reader) int { return a.Read(r) * 10 })
	c := NewDerived(g, func(r *Reader) int { return a.Read(r) * 100 })

	runs := 0
	d := Autorun(g, func(r *Reader) {
		runs++
		bv, cv := b.Read(r), c.Read(r)
		if cv != bv*10 {
			t.Errorf("inconsistent snapshot: b=%d c=%d", bv, cv)
		}
	})
	defer d.Dispose()

	for i := 2; i <= 20; i++ {
		a.Set(i)
	}
	if runs != 20 {
		t.Errorf("runs = %d, want 20", runs)
	}
}

func TestGlitchFreeAcrossLayers(t *testing.T) {
	g := NewGraph()
	x := NewValue(g, 1)
	left := NewDerived(g, func(r *Reader) int { return x.Read(r) + 1 })
	right := NewDerived(g, func(r *Reader) int { return left.Read(r) + x.Read(r) })

	d := Autorun(g, func(r *Reader) {
		xv, l, rv := x.Read(r), left.Read(r), right.Read(r)
		if l != xv+1 || rv != 2*xv+1 {
			t.Errorf("inconsistent snapshot: x=%d left=%d right=%d", xv, l, rv)
		}
	})
	defer d.Dispose()

	for i := 0; i < 10; i++ {
		x.Set(i * 7)
	}
}

func TestNoOpSetSuppressed(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, "same")
	runs := 0
	d := Autorun(g, func(r *Reader) {
		v.Read(r)
		runs++
	})
	defer d.Dispose()

	v.Set("same")
	v.Set("same")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestDerivedEqualOutputStopsPropagation(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 3)
	parity := NewDerived(g, func(r *Reader) bool { return v.Read(r)%2 == 0 })

	runs := 0
	d := Autorun(g, func(r *Reader) {
		parity.Read(r)
		runs++
	})
	defer d.Dispose()

	v.Set(5)
	v.Set(7)
	if runs != 1 {
		t.Errorf("runs = %d after same-parity updates, want 1", runs)
	}
	v.Set(8)
	if runs != 2 {
		t.Errorf("runs = %d after parity flip, want 2", runs)
	}
}

func TestEqualityOptions(t *testing.T) {
	type point struct{ X, Y int }

	tests := []struct {
		name     string
		opts     []Option
		next     func(cur []point) []point
		wantRuns int
	}{
		{
			name:     "default treats slices as always changed",
			next:     func(cur []point) []point { return cur },
			wantRuns: 2,
		},
		{
			name:     "structural equality drops equal contents",
			opts:     []Option{StructuralEquality()},
			next:     func(cur []point) []point { return []point{{1, 2}} },
			wantRuns: 1,
		},
		{
			name:     "custom comparer",
			opts:     []Option{WithEquality(func(a, b []point) bool { return len(a) == len(b) })},
			next:     func(cur []point) []point { return []point{{9, 9}} },
			wantRuns: 1,
		},
		{
			name:     "always notify",
			opts:     []Option{AlwaysNotify()},
			next:     func(cur []point) []point { return []point{{1, 2}} },
			wantRuns: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			v := NewValue(g, []point{{1, 2}}, tt.opts...)
			runs := 0
			d := Autorun(g, func(r *Reader) {
				v.Read(r)
				runs++
			})
			defer d.Dispose()

			v.Set(tt.next(v.Get()))
			if runs != tt.wantRuns {
				t.Errorf("runs = %d, want %d", runs, tt.wantRuns)
			}
		})
	}
}

func TestPointerValuesUseReferenceEquality(t *testing.T) {
	type box struct{ n int }
	g := NewGraph()
	first := &box{n: 1}
	v := NewValue(g, first)
	runs := 0
	d := Autorun(g, func(r *Reader) {
		v.Read(r)
		runs++
	})
	defer d.Dispose()

	v.Set(first)
	if runs != 1 {
		t.Errorf("runs = %d after same pointer, want 1", runs)
	}
	v.Set(&box{n: 1})
	if runs != 2 {
		t.Errorf("runs = %d after new pointer, want 2", runs)
	}
}

func TestTransactionBatchesAutoruns(t *testing.T) {
	g := NewGraph()
	a := NewValue(g, 0)
	b := NewValue(g, 0)

	var seen [][2]int
	d := Autorun(g, func(r *Reader) {
		seen = append(seen, [2]int{a.Read(r), b.Read(r)})
	})
	defer d.Dispose()

	g.Transaction(func() {
		a.Set(1)
		b.Set(2)
		if len(seen) != 1 {
			t.Errorf("autorun ran inside transaction")
		}
	})

	if len(seen) != 2 || seen[1] != [2]int{1, 2} {
		t.Errorf("seen = %v, want [[0 0] [1 2]]", seen)
	}
}

func TestNestedTransaction(t *testing.T) {
	g := NewGraph()
	a := NewValue(g, 0)
	runs := 0
	d := Autorun(g, func(r *Reader) {
		a.Read(r)
		runs++
	})
	defer d.Dispose()

	g.Transaction(func() {
		g.Transaction(func() { a.Set(1) })
		a.Set(2)
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestReentrantSetIsQueued(t *testing.T) {
	g := NewGraph()
	src := NewValue(g, 1)
	mirror := NewValue(g, 0)

	var order []string
	d1 := Autorun(g, func(r *Reader) {
		v := src.Read(r)
		order = append(order, fmt.Sprintf("copy %d", v))
		mirror.Set(v * 2)
		if mirror.Get() == v*2 && v != 0 {
			t.Errorf("re-entrant Set applied before the pass completed")
		}
	})
	defer d1.Dispose()
	d2 := Autorun(g, func(r *Reader) {
		order = append(order, fmt.Sprintf("mirror %d", mirror.Read(r)))
	})
	defer d2.Dispose()

	src.Set(5)

	if got := mirror.Get(); got != 10 {
		t.Errorf("mirror = %d, want 10", got)
	}
	last := order[len(order)-1]
	if last != "mirror 10" {
		t.Errorf("last run = %q, want %q (order %v)", last, "mirror 10", order)
	}
}

func TestDynamicDependencies(t *testing.T) {
	g := NewGraph()
	useA := NewValue(g, true)
	a := NewValue(g, "a")
	b := NewValue(g, "b")

	runs := 0
	pick := NewDerived(g, func(r *Reader) string {
		if useA.Read(r) {
			return a.Read(r)
		}
		return b.Read(r)
	})
	d := Autorun(g, func(r *Reader) {
		pick.Read(r)
		runs++
	})
	defer d.Dispose()

	b.Set("b2")
	if runs != 1 {
		t.Errorf("unread branch triggered a run: runs = %d", runs)
	}

	useA.Set(false)
	if got := pick.Get(); got != "b2" {
		t.Errorf("pick = %q, want b2", got)
	}
	if a.observers.len() != 0 {
		t.Errorf("derived still subscribed to abandoned branch")
	}

	a.Set("a2")
	if runs != 2 {
		t.Errorf("abandoned branch triggered a run: runs = %d", runs)
	}
}

func TestAutorunDispose(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 0)
	mid := NewDerived(g, func(r *Reader) int { return v.Read(r) })
	runs := 0
	d := Autorun(g, func(r *Reader) {
		mid.Read(r)
		runs++
	})

	d.Dispose()
	v.Set(1)
	if runs != 1 {
		t.Errorf("disposed autorun ran: runs = %d", runs)
	}
	if v.observers.len() != 0 || mid.observers.len() != 0 {
		t.Errorf("edges left after dispose: value=%d derived=%d", v.observers.len(), mid.observers.len())
	}
}

func TestAutorunDisposeFromInside(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 0)
	var d event.Disposable
	runs := 0
	d = Autorun(g, func(r *Reader) {
		runs++
		if v.Read(r) > 0 {
			d.Dispose()
		}
	})

	v.Set(1)
	v.Set(2)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	if v.observers.len() != 0 {
		t.Errorf("self-disposed autorun left %d edges", v.observers.len())
	}
}

func TestAutorunWithStoreClearsBetweenRuns(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 0)
	live := 0

	d := AutorunWithStore(g, func(r *Reader, store *event.Store) {
		v.Read(r)
		live++
		store.AddFunc(func() { live-- })
	})

	v.Set(1)
	v.Set(2)
	if live != 1 {
		t.Errorf("live resources = %d, want 1", live)
	}
	d.Dispose()
	if live != 0 {
		t.Errorf("live resources after dispose = %d, want 0", live)
	}
}

func TestReadWithoutReaderPanics(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 1)

	defer func() {
		if r := recover(); r != ErrNoReader {
			t.Errorf("recover() = %v, want ErrNoReader", r)
		}
	}()
	v.Read(nil)
}

func TestStaleReaderPanics(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 1)
	var leaked *Reader
	d := Autorun(g, func(r *Reader) {
		leaked = r
		v.Read(r)
	})
	defer d.Dispose()

	defer func() {
		if r := recover(); r != ErrStaleReader {
			t.Errorf("recover() = %v, want ErrStaleReader", r)
		}
	}()
	v.Read(leaked)
}

func TestCycleDetected(t *testing.T) {
	g := NewGraph()
	var self *Derived[int]
	self = NewDerived(g, func(r *Reader) int { return self.Read(r) + 1 })

	defer func() {
		if r := recover(); r != ErrCycle {
			t.Errorf("recover() = %v, want ErrCycle", r)
		}
	}()
	self.Get()
}

func TestDerivedPanicReachesPullSite(t *testing.T) {
	g := NewGraph()
	fail := NewValue(g, false)
	boom := errors.New("boom")
	d := NewDerived(g, func(r *Reader) int {
		if fail.Read(r) {
			panic(boom)
		}
		return 1
	})

	sink := Autorun(g, func(r *Reader) {})
	defer sink.Dispose()

	fail.Set(true)
	func() {
		defer func() {
			if r := recover(); r != boom {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		d.Get()
	}()

	fail.Set(false)
	if got := d.Get(); got != 1 {
		t.Errorf("Get() after recovery = %d, want 1", got)
	}
}

func TestAutorunPanicReachesSetCaller(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 0)
	boom := errors.New("boom")
	runs := 0
	d := Autorun(g, func(r *Reader) {
		runs++
		if v.Read(r) == 1 {
			panic(boom)
		}
	})
	defer d.Dispose()

	func() {
		defer func() {
			if r := recover(); r != boom {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		v.Set(1)
	}()

	// The graph stays usable and the autorun keeps its subscription.
	v.Set(2)
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestUpdateLoopDetected(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 0)

	defer func() {
		if r := recover(); r != ErrUpdateLoop {
			t.Errorf("recover() = %v, want ErrUpdateLoop", r)
		}
	}()
	Autorun(g, func(r *Reader) {
		v.Set(v.Read(r) + 1)
	})
}

func TestDerivedWithCacheAccumulates(t *testing.T) {
	type maxWidth struct {
		key   int
		width int
	}
	g := NewGraph()
	key := NewValue(g, 1)
	width := NewValue(g, 10)

	widest := NewDerivedWithCache(g, func(r *Reader, prev maxWidth, hasPrev bool) maxWidth {
		k, w := key.Read(r), width.Read(r)
		if hasPrev && prev.key == k && prev.width > w {
			return prev
		}
		return maxWidth{key: k, width: w}
	})
	d := Autorun(g, func(r *Reader) { widest.Read(r) })
	defer d.Dispose()

	width.Set(30)
	width.Set(20)
	if got := widest.Get().width; got != 30 {
		t.Errorf("max width = %d, want 30", got)
	}

	key.Set(2)
	if got := widest.Get().width; got != 20 {
		t.Errorf("max width after key change = %d, want 20", got)
	}
}

func TestMapAndConstant(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 3)
	sq := Map(g, Readable[int](v), func(n int) int { return n * n })
	c := NewConstant("fixed")

	var got string
	d := Autorun(g, func(r *Reader) {
		got = fmt.Sprintf("%s %d", c.Read(r), sq.Read(r))
	})
	defer d.Dispose()

	v.Set(4)
	if got != "fixed 16" {
		t.Errorf("got %q, want %q", got, "fixed 16")
	}
}

func TestUntracked(t *testing.T) {
	g := NewGraph()
	v := NewValue(g, 7)
	var got int
	g.Untracked(func(r *Reader) {
		if r.Tracked() {
			t.Error("Untracked reader reports Tracked() = true")
		}
		got = v.Read(r)
	})
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
	if v.observers.len() != 0 {
		t.Errorf("untracked read subscribed an observer")
	}
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(msg, args...))
}

func TestGraphLogger(t *testing.T) {
	log := &recordingLogger{}
	g := NewGraph(WithLogger(log))
	v := NewValue(g, 1, WithName("width"))
	d := Autorun(g, func(r *Reader) { v.Read(r) }, WithName("paint"))
	defer d.Dispose()

	v.Set(2)

	want := []string{
		"observable: paint running",
		"observable: width changed (v2)",
		"observable: paint running",
	}
	if fmt.Sprint(log.lines) != fmt.Sprint(want) {
		t.Errorf("log = %q, want %q", log.lines, want)
	}
}
