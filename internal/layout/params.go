package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid layout params")

// Params holds the tunable constants of the layout, in pixels unless noted.
type Params struct {
	// Padding is the gap between code and preview when both have the same height.
	Padding int `toml:"padding" yaml:"padding" json:"padding"`

	// CursorPadding keeps this much room between the cursor and the preview.
	CursorPadding int `toml:"cursor_padding" yaml:"cursor_padding" json:"cursor_padding"`

	// ContentGap is the space left after the widest original line.
	ContentGap int `toml:"content_gap" yaml:"content_gap" json:"content_gap"`

	// ContentTrailing is added after the preview content to get the total
	// scrollable content width.
	ContentTrailing int `toml:"content_trailing" yaml:"content_trailing" json:"content_trailing"`

	// MinWidthRatio is the share of the content width the preview may claim
	// (0..1), capped by MinWidthCap.
	MinWidthRatio float64 `toml:"min_width_ratio" yaml:"min_width_ratio" json:"min_width_ratio"`
	MinWidthCap   int     `toml:"min_width_cap" yaml:"min_width_cap" json:"min_width_cap"`

	// SeparatorMin and SeparatorMax bound the gap when heights differ.
	SeparatorMin int `toml:"separator_min" yaml:"separator_min" json:"separator_min"`
	SeparatorMax int `toml:"separator_max" yaml:"separator_max" json:"separator_max"`

	// ScrollbarGutter is added to the preview width so its scrollbar never
	// covers text.
	ScrollbarGutter int `toml:"scrollbar_gutter" yaml:"scrollbar_gutter" json:"scrollbar_gutter"`

	VerticalMargin   int `toml:"vertical_margin" yaml:"vertical_margin" json:"vertical_margin"`
	HorizontalMargin int `toml:"horizontal_margin" yaml:"horizontal_margin" json:"horizontal_margin"`
}

// DefaultParams returns the built-in constants.
func DefaultParams() Params {
	return Params{
		Padding:          4,
		CursorPadding:    50,
		ContentGap:       20,
		ContentTrailing:  70,
		MinWidthRatio:    0.3,
		MinWidthCap:      100,
		SeparatorMin:     4,
		SeparatorMax:     60,
		ScrollbarGutter:  2,
		VerticalMargin:   2,
		HorizontalMargin: 2,
	}
}

// Validate checks that p keeps the preview strictly right of the code.
func (p Params) Validate() error {
	switch {
	case p.Padding <= 0:
		return fmt.Errorf("%w: padding must be positive, got %d", ErrInvalidParams, p.Padding)
	case p.SeparatorMin <= 0:
		return fmt.Errorf("%w: separator_min must be positive, got %d", ErrInvalidParams, p.SeparatorMin)
	case p.SeparatorMax < p.SeparatorMin:
		return fmt.Errorf("%w: separator_max %d below separator_min %d", ErrInvalidParams, p.SeparatorMax, p.SeparatorMin)
	case p.MinWidthRatio < 0 || p.MinWidthRatio > 1:
		return fmt.Errorf("%w: min_width_ratio must be within [0,1], got %g", ErrInvalidParams, p.MinWidthRatio)
	case p.CursorPadding < 0, p.ContentGap < 0, p.ContentTrailing < 0, p.MinWidthCap < 0,
		p.ScrollbarGutter < 0, p.VerticalMargin < 0, p.HorizontalMargin < 0:
		return fmt.Errorf("%w: negative size", ErrInvalidParams)
	}
	return nil
}
