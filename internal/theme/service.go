package theme

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/inlineview/internal/event"
	"github.com/dshills/inlineview/internal/observable"
)

// Service holds the active theme and announces changes.
type Service struct {
	current     *Theme
	onDidChange event.Emitter[*Theme]

	// observables bridges the active theme into each graph once, so that a
	// theme switch is a single update however many colors are read.
	observables map[*observable.Graph]*observable.EventObservable[*Theme]
}

// NewService creates a service showing t, or the dark theme when t is nil.
func NewService(t *Theme) *Service {
	if t == nil {
		t = DarkTheme()
	}
	return &Service{current: t}
}

// Current returns the active theme.
func (s *Service) Current() *Theme {
	return s.current
}

// SetTheme switches the active theme. Setting the current theme again does nothing.
func (s *Service) SetTheme(t *Theme) {
	if t == nil || t == s.current {
		return
	}
	s.current = t
	s.onDidChange.Fire(t)
}

// OnDidChange fires after the active theme changed.
func (s *Service) OnDidChange() event.Source[*Theme] {
	return &s.onDidChange
}

// Resolve returns the opaque color of key in the active theme.
func (s *Service) Resolve(key Key) (colorful.Color, error) {
	return s.current.Resolve(key)
}

// Theme returns the active theme as an observable of g.
func (s *Service) Theme(g *observable.Graph) observable.Readable[*Theme] {
	if obs, ok := s.observables[g]; ok {
		return obs
	}
	if s.observables == nil {
		s.observables = make(map[*observable.Graph]*observable.EventObservable[*Theme])
	}
	obs := observable.FromEvent(g, s.OnDidChange(), s.Current, observable.WithName("theme"))
	s.observables[g] = obs
	return obs
}

// Color returns an observable of key's resolved color. Unresolvable keys
// read as black.
func (s *Service) Color(g *observable.Graph, key Key) observable.Readable[colorful.Color] {
	return observable.Map(g, s.Theme(g), func(t *Theme) colorful.Color {
		c, err := t.Resolve(key)
		if err != nil {
			return colorful.Color{}
		}
		return c
	}, observable.WithName("theme."+string(key)))
}
