package glint

import "testing"

func TestUniformEdgesShorthand(t *testing.T) {
	tests := []struct {
		name string
		vals []int
		want Edges
	}{
		{"zero", nil, Edges{}},
		{"one", []int{2}, Edges{2, 2, 2, 2}},
		{"two", []int{1, 3}, Edges{1, 3, 1, 3}},
		{"four", []int{1, 2, 3, 4}, Edges{1, 2, 3, 4}},
		{"invalid arity", []int{1, 2, 3}, Edges{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniformEdges(tt.vals...); got != tt.want {
				t.Errorf("UniformEdges(%v) = %+v, want %+v", tt.vals, got, tt.want)
			}
		})
	}
}

func TestStyleApplyShallowMerge(t *testing.T) {
	base := DefaultStyle()
	w := Points(10)
	grow := float32(2)
	patched := base.Apply(Patch{Width: &w, FlexGrow: &grow})

	if patched.Width != w {
		t.Errorf("Width = %+v, want %+v", patched.Width, w)
	}
	if patched.FlexGrow != 2 {
		t.Errorf("FlexGrow = %v, want 2", patched.FlexGrow)
	}
	// Untouched fields keep their prior value.
	if patched.FlexDirection != base.FlexDirection {
		t.Errorf("FlexDirection changed unexpectedly: %v", patched.FlexDirection)
	}
}

func TestStyleEqual(t *testing.T) {
	a := DefaultStyle()
	b := DefaultStyle()
	if !a.Equal(b) {
		t.Error("two default styles should be equal")
	}
	w := Points(5)
	b = b.Apply(Patch{Width: &w})
	if a.Equal(b) {
		t.Error("styles differing in Width should not be equal")
	}
}

func TestStyleTextStyleProjection(t *testing.T) {
	s := DefaultStyle()
	s.FG, s.HasFG = NamedColor(1), true
	s.Attrs = AttrBold
	ts := s.TextStyle()
	if !ts.HasFG || ts.FG != NamedColor(1) || !ts.Attrs.Has(AttrBold) {
		t.Errorf("TextStyle projection mismatch: %+v", ts)
	}
}
