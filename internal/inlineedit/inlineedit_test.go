package inlineedit

import (
	"errors"
	"fmt"
	"testing"
)

func TestLineRangeBasics(t *testing.T) {
	r := NewLineRange(3, 6)
	if r.Length() != 3 || r.IsEmpty() || r.Last() != 5 {
		t.Errorf("range %v: length=%d empty=%v last=%d", r, r.Length(), r.IsEmpty(), r.Last())
	}
	if !r.Contains(3) || !r.Contains(5) || r.Contains(6) || r.Contains(2) {
		t.Error("Contains boundary handling wrong")
	}
	if !r.Touches(6) || r.Touches(7) {
		t.Error("Touches boundary handling wrong")
	}
	if got := OfLength(4, 0); !got.IsEmpty() || got.Start != 4 {
		t.Errorf("OfLength(4, 0) = %v", got)
	}
}

func TestLineRangeIntersects(t *testing.T) {
	a, b := NewLineRange(1, 4), NewLineRange(3, 8)
	if !a.Intersects(b) {
		t.Error("overlapping ranges do not intersect")
	}
	if a.Intersects(NewLineRange(4, 5)) {
		t.Error("adjacent ranges intersect")
	}
}

func TestLineRangeJoin(t *testing.T) {
	tests := []struct {
		name string
		a, b LineRange
		want LineRange
	}{
		{"overlapping", NewLineRange(1, 4), NewLineRange(3, 8), NewLineRange(1, 8)},
		{"disjoint", NewLineRange(5, 6), NewLineRange(1, 2), NewLineRange(1, 6)},
		{"contained", NewLineRange(1, 9), NewLineRange(3, 4), NewLineRange(1, 9)},
		{"empty extends end", NewLineRange(2, 3), OfLength(7, 0), NewLineRange(2, 7)},
		{"empty inside", NewLineRange(2, 6), OfLength(4, 0), NewLineRange(2, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Join(tt.b); got != tt.want {
				t.Errorf("%v.Join(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLineRangeComplement(t *testing.T) {
	tests := []struct {
		rng   LineRange
		count int
		want  string
	}{
		{NewLineRange(3, 5), 10, "[[1,3) [5,11)]"},
		{NewLineRange(1, 5), 10, "[[5,11)]"},
		{NewLineRange(3, 11), 10, "[[1,3)]"},
		{NewLineRange(1, 11), 10, "[]"},
		{NewLineRange(4, 4), 6, "[[1,4) [4,7)]"},
	}

	for _, tt := range tests {
		t.Run(tt.rng.String(), func(t *testing.T) {
			if got := fmt.Sprint(tt.rng.Complement(tt.count)); got != tt.want {
				t.Errorf("Complement(%d) = %s, want %s", tt.count, got, tt.want)
			}
		})
	}
}

func TestLineRangeValidate(t *testing.T) {
	tests := []struct {
		rng     LineRange
		wantErr bool
	}{
		{NewLineRange(1, 1), false},
		{NewLineRange(2, 9), false},
		{NewLineRange(0, 3), true},
		{NewLineRange(5, 4), true},
	}
	for _, tt := range tests {
		err := tt.rng.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.rng, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Validate(%v) error %v does not wrap ErrInvalidRange", tt.rng, err)
		}
	}
}

func TestDescriptor(t *testing.T) {
	replace := New(NewLineRange(4, 6), NewLineRange(4, 7))
	if replace.IsInsertion() {
		t.Error("replacement reported as insertion")
	}
	if replace.ModifiedLineCount() != 3 {
		t.Errorf("ModifiedLineCount() = %d, want 3", replace.ModifiedLineCount())
	}
	if replace.DisplayRange != replace.Original {
		t.Errorf("DisplayRange = %v, want %v", replace.DisplayRange, replace.Original)
	}

	insert := New(NewLineRange(4, 4), NewLineRange(4, 6))
	if !insert.IsInsertion() {
		t.Error("insertion not detected")
	}
	if insert.DisplayRange != NewLineRange(3, 4) {
		t.Errorf("insertion DisplayRange = %v, want [3,4)", insert.DisplayRange)
	}
	if err := insert.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	top := New(NewLineRange(1, 1), NewLineRange(1, 2))
	if top.DisplayRange != NewLineRange(1, 2) {
		t.Errorf("insertion at top DisplayRange = %v, want [1,2)", top.DisplayRange)
	}

	bad := New(NewLineRange(0, 2), NewLineRange(1, 2))
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Validate() = %v, want ErrInvalidRange", err)
	}
}

func TestFromTexts(t *testing.T) {
	tests := []struct {
		name         string
		original     string
		modified     string
		wantOK       bool
		wantOriginal LineRange
		wantModified LineRange
	}{
		{
			name:     "identical",
			original: "a\nb\n",
			modified: "a\nb\n",
		},
		{
			name:         "single line replaced",
			original:     "a\nb\nc\n",
			modified:     "a\nB\nc\n",
			wantOK:       true,
			wantOriginal: NewLineRange(2, 3),
			wantModified: NewLineRange(2, 3),
		},
		{
			name:         "pure insertion",
			original:     "a\nb\n",
			modified:     "a\nx\ny\nb\n",
			wantOK:       true,
			wantOriginal: NewLineRange(2, 2),
			wantModified: NewLineRange(2, 4),
		},
		{
			name:         "deletion",
			original:     "a\nb\nc\n",
			modified:     "a\nc\n",
			wantOK:       true,
			wantOriginal: NewLineRange(2, 3),
			wantModified: NewLineRange(2, 2),
		},
		{
			name:         "separated changes collapse",
			original:     "a\nb\nc\nd\n",
			modified:     "A\nb\nc\nD\n",
			wantOK:       true,
			wantOriginal: NewLineRange(1, 5),
			wantModified: NewLineRange(1, 5),
		},
		{
			name:         "last line without newline",
			original:     "a\nb",
			modified:     "a\nc",
			wantOK:       true,
			wantOriginal: NewLineRange(2, 3),
			wantModified: NewLineRange(2, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromTexts(tt.original, tt.modified)
			if ok != tt.wantOK {
				t.Fatalf("FromTexts ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Original != tt.wantOriginal || got.Modified != tt.wantModified {
				t.Errorf("FromTexts = %v, want original %v modified %v", got, tt.wantOriginal, tt.wantModified)
			}
		})
	}
}

func TestDescriptorTouchesLine(t *testing.T) {
	replace := New(NewLineRange(4, 6), NewLineRange(4, 5))
	insert := New(NewLineRange(4, 4), NewLineRange(4, 6))

	tests := []struct {
		name string
		desc Descriptor
		line int
		want bool
	}{
		{"replace before", replace, 3, false},
		{"replace first", replace, 4, true},
		{"replace last", replace, 5, true},
		{"replace after", replace, 6, false},
		{"insert line above", insert, 3, true},
		{"insert at position", insert, 4, true},
		{"insert line below", insert, 5, false},
		{"insert far", insert, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.TouchesLine(tt.line); got != tt.want {
				t.Errorf("TouchesLine(%d) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
