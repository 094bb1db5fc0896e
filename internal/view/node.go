// Package view turns layout geometry into a declarative element tree and
// keeps the preview editor in sync with it.
package view

import (
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/inlineview/internal/geom"
)

// Node is an element of the overlay tree.
type Node struct {
	Tag      string
	Class    string
	Style    map[string]string
	Children []*Node

	// Text is rendered before the children.
	Text string
}

// Div creates a div element.
func Div(class string, style map[string]string, children ...*Node) *Node {
	return &Node{Tag: "div", Class: class, Style: style, Children: children}
}

// Px formats a pixel length.
func Px(v int) string {
	return strconv.Itoa(v) + "px"
}

// Hex formats a color for a style value.
func Hex(c colorful.Color) string {
	return c.Hex()
}

// Box returns absolute positioning styles for r.
func Box(r geom.Rect) map[string]string {
	return map[string]string{
		"position": "absolute",
		"left":     Px(r.Left),
		"top":      Px(r.Top),
		"width":    Px(r.Width()),
		"height":   Px(r.Height()),
	}
}

// CSS renders the node's inline style with properties sorted by name.
func (n *Node) CSS() string {
	if n == nil || len(n.Style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(n.Style))
	for k := range n.Style {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(n.Style[k])
		b.WriteByte(';')
	}
	return b.String()
}

// HTML renders the subtree as markup.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n == nil {
		return
	}
	tag := n.Tag
	if tag == "" {
		tag = "div"
	}
	b.WriteByte('<')
	b.WriteString(tag)
	if n.Class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(n.Class))
		b.WriteByte('"')
	}
	if css := n.CSS(); css != "" {
		b.WriteString(` style="`)
		b.WriteString(html.EscapeString(css))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(html.EscapeString(n.Text))
	for _, c := range n.Children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

// Find returns the first node in the subtree with the given class.
func (n *Node) Find(class string) *Node {
	if n == nil {
		return nil
	}
	if n.Class == class {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(class); found != nil {
			return found
		}
	}
	return nil
}
