// Package theme resolves the colors used by the inline edit preview.
//
// A Theme maps color keys to hex strings. Keys a theme leaves out fall back
// to the defaults for its kind. Colors with an alpha channel are blended onto
// the editor background so that renderers without transparency get the
// color a user would actually see.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownColor is returned when neither the theme nor its defaults define a key.
	ErrUnknownColor = errors.New("unknown color key")

	// ErrInvalidColor is returned for malformed hex colors.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidTheme is returned when a theme definition cannot be used.
	ErrInvalidTheme = errors.New("invalid theme")
)

// Key names a themable color.
type Key string

// Color keys used by the preview.
const (
	EditorBackground   Key = "editor.background"
	EditorForeground   Key = "editor.foreground"
	OriginalBackground Key = "inlineEdit.originalBackground"
	ModifiedBackground Key = "inlineEdit.modifiedBackground"
	OriginalBorder     Key = "inlineEdit.originalBorder"
	ModifiedBorder     Key = "inlineEdit.modifiedBorder"
	PreviewBackground  Key = "inlineEdit.previewBackground"
	Shadow             Key = "widget.shadow"
)

// Keys lists every key the defaults define, in a stable order.
var Keys = []Key{
	EditorBackground,
	EditorForeground,
	OriginalBackground,
	ModifiedBackground,
	OriginalBorder,
	ModifiedBorder,
	PreviewBackground,
	Shadow,
}

// Kind is the broad class of a theme.
type Kind int

const (
	Dark Kind = iota
	Light
	HighContrast
)

// String returns the kind name used in theme files.
func (k Kind) String() string {
	switch k {
	case Dark:
		return "dark"
	case Light:
		return "light"
	case HighContrast:
		return "high-contrast"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "":
		return Dark, nil
	case "light":
		return Light, nil
	case "high-contrast", "hc":
		return HighContrast, nil
	}
	return Dark, fmt.Errorf("%w: unknown kind %q", ErrInvalidTheme, s)
}

// Theme is a named set of colors.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	Kind Kind

	// Colors maps keys to "#rrggbb" or "#rrggbbaa".
	Colors map[Key]string
}

// Lookup returns the raw color for key, falling back to the kind defaults.
func (t *Theme) Lookup(key Key) (string, bool) {
	if t != nil {
		if c, ok := t.Colors[key]; ok {
			return c, true
		}
	}
	kind := Dark
	if t != nil {
		kind = t.Kind
	}
	c, ok := defaultColors[kind][key]
	return c, ok
}

var defaultColors = map[Kind]map[Key]string{
	Dark: {
		EditorBackground:   "#1e1e1e",
		EditorForeground:   "#d4d4d4",
		OriginalBackground: "#ff000033",
		ModifiedBackground: "#9ccc2c33",
		OriginalBorder:     "#ff000066",
		ModifiedBorder:     "#9ccc2c66",
		PreviewBackground:  "#252526",
		Shadow:             "#0000005c",
	},
	Light: {
		EditorBackground:   "#ffffff",
		EditorForeground:   "#000000",
		OriginalBackground: "#ff000026",
		ModifiedBackground: "#9ccc2c40",
		OriginalBorder:     "#ff000066",
		ModifiedBorder:     "#9ccc2c80",
		PreviewBackground:  "#f3f3f3",
		Shadow:             "#00000029",
	},
	HighContrast: {
		EditorBackground:   "#000000",
		EditorForeground:   "#ffffff",
		OriginalBackground: "#000000",
		ModifiedBackground: "#000000",
		OriginalBorder:     "#ff0000",
		ModifiedBorder:     "#00ff00",
		PreviewBackground:  "#000000",
		Shadow:             "#000000",
	},
}

// DarkTheme returns the built-in dark theme.
func DarkTheme() *Theme {
	return &Theme{Name: "Default Dark", Kind: Dark, Colors: map[Key]string{}}
}

// LightTheme returns the built-in light theme.
func LightTheme() *Theme {
	return &Theme{Name: "Default Light", Kind: Light, Colors: map[Key]string{}}
}

// HighContrastTheme returns the built-in high contrast theme.
func HighContrastTheme() *Theme {
	return &Theme{Name: "High Contrast", Kind: HighContrast, Colors: map[Key]string{}}
}

// Builtin returns a built-in theme by kind name.
func Builtin(name string) (*Theme, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	switch kind {
	case Light:
		return LightTheme(), nil
	case HighContrast:
		return HighContrastTheme(), nil
	default:
		return DarkTheme(), nil
	}
}

// Validate checks that every color of t parses.
func (t *Theme) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil theme", ErrInvalidTheme)
	}
	for key, c := range t.Colors {
		if _, _, err := parseHex(c); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidTheme, key, err)
		}
	}
	return nil
}
