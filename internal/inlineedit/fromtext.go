package inlineedit

import (
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// FromTexts diffs original against modified line by line and returns one
// descriptor covering every changed line. ok is false when the texts have
// the same lines.
//
// The returned Modified range indexes lines of modified, which is the text
// the preview editor shows.
func FromTexts(original, modified string) (desc Descriptor, ok bool) {
	if original == modified {
		return Descriptor{}, false
	}

	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(original, modified)
	diffs := d.DiffMain(a, b, false)
	diffs = d.DiffCharsToLines(diffs, lines)

	origLine, modLine := 1, 1
	var origRange, modRange LineRange
	found := false

	for _, diff := range diffs {
		n := countLines(diff.Text)
		switch diff.Type {
		case dmp.DiffEqual:
			origLine += n
			modLine += n
			continue
		case dmp.DiffDelete:
			origRange, modRange = extend(found, origRange, modRange, origLine, modLine)
			origLine += n
			origRange.EndExclusive = origLine
		case dmp.DiffInsert:
			origRange, modRange = extend(found, origRange, modRange, origLine, modLine)
			modLine += n
			modRange.EndExclusive = modLine
		}
		found = true
	}

	if !found {
		return Descriptor{}, false
	}
	return New(origRange, modRange), true
}

// extend opens the ranges at the current positions on the first change and
// pulls their ends forward on later ones.
func extend(found bool, orig, mod LineRange, origLine, modLine int) (LineRange, LineRange) {
	if !found {
		return LineRange{Start: origLine, EndExclusive: origLine}, LineRange{Start: modLine, EndExclusive: modLine}
	}
	return orig.Join(OfLength(origLine, 0)), mod.Join(OfLength(modLine, 0))
}

// countLines returns how many lines a diff chunk spans. Line-mode chunks end
// in a newline except possibly the last line of the text.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
