package config

import (
	"github.com/dshills/inlineview/internal/event"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/observable"
)

// Source holds the live settings. Set is called on the UI goroutine with
// each reloaded config; observers re-derive from it.
type Source struct {
	current     *Config
	onDidChange event.Emitter[*Config]
}

// NewSource creates a source holding c, or the defaults when c is nil.
func NewSource(c *Config) *Source {
	if c == nil {
		c = Default()
	}
	return &Source{current: c}
}

// Current returns the active settings.
func (s *Source) Current() *Config {
	return s.current
}

// Set replaces the active settings and notifies listeners.
func (s *Source) Set(c *Config) {
	if c == nil || c == s.current {
		return
	}
	s.current = c
	s.onDidChange.Fire(c)
}

// OnDidChange fires after Set.
func (s *Source) OnDidChange() event.Source[*Config] {
	return &s.onDidChange
}

// Params returns the layout parameters as an observable of g. It only
// changes when the layout section does.
func (s *Source) Params(g *observable.Graph) observable.Readable[layout.Params] {
	return observable.FromEvent(g, s.OnDidChange(), func() layout.Params {
		return s.current.Layout
	}, observable.WithName("config.layout"))
}
