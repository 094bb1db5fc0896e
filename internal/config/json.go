package config

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// binding ties a dotted JSON path to a settings field.
type binding struct {
	path string
	ptr  any
}

func (c *Config) bindings() []binding {
	p := &c.Layout
	e := &c.Editor
	return []binding{
		{"log.level", &c.Log.Level},
		{"log.file", &c.Log.File},
		{"layout.padding", &p.Padding},
		{"layout.cursor_padding", &p.CursorPadding},
		{"layout.content_gap", &p.ContentGap},
		{"layout.content_trailing", &p.ContentTrailing},
		{"layout.min_width_ratio", &p.MinWidthRatio},
		{"layout.min_width_cap", &p.MinWidthCap},
		{"layout.separator_min", &p.SeparatorMin},
		{"layout.separator_max", &p.SeparatorMax},
		{"layout.scrollbar_gutter", &p.ScrollbarGutter},
		{"layout.vertical_margin", &p.VerticalMargin},
		{"layout.horizontal_margin", &p.HorizontalMargin},
		{"theme.name", &c.Theme.Name},
		{"theme.file", &c.Theme.File},
		{"editor.line_height", &e.LineHeight},
		{"editor.char_width", &e.CharWidth},
		{"editor.tab_size", &e.TabSize},
		{"editor.content_left", &e.ContentLeft},
		{"editor.scrollbar_width", &e.ScrollbarWidth},
		{"editor.minimap_width", &e.MinimapWidth},
	}
}

// decodeJSON copies every known path present in data into c. Unknown keys
// are ignored.
func decodeJSON(data []byte, c *Config) error {
	if !gjson.ValidBytes(data) {
		return errors.New("malformed JSON")
	}
	for _, b := range c.bindings() {
		r := gjson.GetBytes(data, b.path)
		if !r.Exists() {
			continue
		}
		switch ptr := b.ptr.(type) {
		case *string:
			if r.Type != gjson.String {
				return fmt.Errorf("%s: want string, got %s", b.path, r.Type)
			}
			*ptr = r.String()
		case *int:
			if r.Type != gjson.Number || r.Float() != float64(r.Int()) {
				return fmt.Errorf("%s: want integer, got %s", b.path, r.Raw)
			}
			*ptr = int(r.Int())
		case *float64:
			if r.Type != gjson.Number {
				return fmt.Errorf("%s: want number, got %s", b.path, r.Type)
			}
			*ptr = r.Float()
		}
	}
	return nil
}

// encodeJSON writes every binding into an indented JSON document.
func encodeJSON(c *Config) ([]byte, error) {
	doc := "{}"
	for _, b := range c.bindings() {
		var value any
		switch ptr := b.ptr.(type) {
		case *string:
			value = *ptr
		case *int:
			value = *ptr
		case *float64:
			value = *ptr
		}
		var err error
		if doc, err = sjson.Set(doc, b.path, value); err != nil {
			return nil, fmt.Errorf("%s: %w", b.path, err)
		}
	}
	return pretty.Pretty([]byte(doc)), nil
}

// DefaultJSON returns the built-in settings as JSON, suitable as a starting
// config file.
func DefaultJSON() []byte {
	data, err := encodeJSON(Default())
	if err != nil {
		panic(err)
	}
	return data
}
