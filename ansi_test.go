package glint

import "testing"

func TestTextStyleOpenOrder(t *testing.T) {
	s := TextStyle{
		FG: NamedColor(2), HasFG: true,
		Attrs: AttrDim | AttrBold | AttrItalic | AttrUnderline | AttrStrike | AttrInverse,
	}
	got := s.Open()
	want := "\x1b[2;32;1;3;4;9;7m"
	if got != want {
		t.Errorf("Open() = %q, want %q", got, want)
	}
}

func TestTextStyleRoundTripScenario1(t *testing.T) {
	s := TextStyle{FG: NamedColor(2), HasFG: true}
	got := StyleText("Hello", s)
	want := "\x1b[32mHello\x1b[39m"
	if got != want {
		t.Errorf("StyleText = %q, want %q", got, want)
	}
}

func TestVisibleWidthIgnoresEscapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain", "Hello", 5},
		{"styled", "\x1b[32mHello\x1b[39m", 5},
		{"empty", "", 0},
		{"wide", "你好", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleWidth(tt.text); got != tt.want {
				t.Errorf("VisibleWidth(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

// Quantified invariant (§8): visible_width(slice(s,i,j)) == j-i.
func TestSlicePreservesWidth(t *testing.T) {
	s := "\x1b[32mHello World\x1b[39m"
	total := VisibleWidth(s)
	for i := 0; i <= total; i++ {
		for j := i; j <= total; j++ {
			sliced := Slice(s, i, j)
			if got := VisibleWidth(sliced); got != j-i {
				t.Errorf("VisibleWidth(Slice(s,%d,%d)) = %d, want %d", i, j, got, j-i)
			}
		}
	}
}

// Quantified invariant (§8): stripping slice(s,0,visible_width(s)) equals
// stripping s itself.
func TestSliceFullRangeStripsEqual(t *testing.T) {
	s := "\x1b[34mA \x1b[1mB\x1b[22m C\x1b[39m"
	full := Slice(s, 0, VisibleWidth(s))
	if StripEscapes(full) != StripEscapes(s) {
		t.Errorf("stripped slice = %q, want %q", StripEscapes(full), StripEscapes(s))
	}
}
