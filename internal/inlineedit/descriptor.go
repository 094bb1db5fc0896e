package inlineedit

import "fmt"

// Descriptor is the inline edit being previewed.
type Descriptor struct {
	// Original is the replaced range in the host document. It is empty for
	// a pure insertion.
	Original LineRange

	// Modified is the range of the replacement text that shows the edit.
	Modified LineRange

	// DisplayRange is the range of the host document whose rendered width
	// decides where the preview may start.
	DisplayRange LineRange
}

// New creates a descriptor. The display range is the original range, or the
// line in front of an insertion.
func New(original, modified LineRange) Descriptor {
	display := original
	if original.IsEmpty() {
		line := max(original.Start-1, 1)
		display = OfLength(line, 1)
	}
	return Descriptor{Original: original, Modified: modified, DisplayRange: display}
}

// IsInsertion reports whether the edit inserts lines without replacing any.
func (d Descriptor) IsInsertion() bool {
	return d.Original.IsEmpty()
}

// TouchesLine reports whether a cursor on line is editing this suggestion:
// the line is replaced, measured for display, or sits right at an insertion.
func (d Descriptor) TouchesLine(line int) bool {
	if d.Original.Contains(line) || d.DisplayRange.Contains(line) {
		return true
	}
	return d.IsInsertion() && d.Original.Touches(line)
}

// ModifiedLineCount returns the number of replacement lines.
func (d Descriptor) ModifiedLineCount() int {
	return d.Modified.Length()
}

// Validate checks every range of the descriptor.
func (d Descriptor) Validate() error {
	if err := d.Original.Validate(); err != nil {
		return fmt.Errorf("original: %w", err)
	}
	if err := d.Modified.Validate(); err != nil {
		return fmt.Errorf("modified: %w", err)
	}
	if err := d.DisplayRange.Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// String summarizes the descriptor for logs.
func (d Descriptor) String() string {
	kind := "replace"
	if d.IsInsertion() {
		kind = "insert"
	}
	return fmt.Sprintf("%s %s -> %s", kind, d.Original, d.Modified)
}
