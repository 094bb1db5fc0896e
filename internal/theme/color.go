package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// parseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" and returns the color and
// its alpha in [0,1].
func parseHex(s string) (colorful.Color, float64, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := 1.0
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = float64(a) / 255
		hex = hex[:6]
	default:
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, alpha, nil
}

// Blend composites a color with the given alpha over bg.
func Blend(bg, fg colorful.Color, alpha float64) colorful.Color {
	return bg.BlendRgb(fg, alpha).Clamped()
}

// Resolve returns the opaque color of key in t. Translucent colors are
// blended onto the theme's editor background.
func (t *Theme) Resolve(key Key) (colorful.Color, error) {
	raw, ok := t.Lookup(key)
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %s", ErrUnknownColor, key)
	}
	c, alpha, err := parseHex(raw)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%s: %w", key, err)
	}
	if alpha >= 1 || key == EditorBackground {
		return c, nil
	}
	bg, err := t.Resolve(EditorBackground)
	if err != nil {
		return colorful.Color{}, err
	}
	return Blend(bg, c, alpha), nil
}
