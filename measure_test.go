package glint

import (
	"reflect"
	"testing"
)

func TestMeasureEdgeCases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		w, h := Measure("", 10, WrapWrap)
		if w != 0 || h != 0 {
			t.Errorf("Measure(\"\") = (%d,%d), want (0,0)", w, h)
		}
	})
	t.Run("trailing newline adds a line", func(t *testing.T) {
		_, h := Measure("hello\n", 80, WrapTruncateEnd)
		if h != 2 {
			t.Errorf("height = %d, want 2", h)
		}
	})
	t.Run("escape-only line has zero width", func(t *testing.T) {
		w, _ := Measure("\x1b[32m\x1b[39m", 80, WrapTruncateEnd)
		if w != 0 {
			t.Errorf("width = %d, want 0", w)
		}
	})
}

func TestMeasureMemoizationKeyChanges(t *testing.T) {
	w1, _ := Measure("abc", 10, WrapWrap)
	w2, _ := Measure("abcd", 10, WrapWrap)
	if w1 == w2 {
		t.Errorf("different text must not share a cached result: got %d == %d", w1, w2)
	}
}

// Scenario 5 (§8): wrapping "alpha beta gamma" at width 7 yields three
// space-separated lines.
func TestWrapScenario5(t *testing.T) {
	got := Wrap("alpha beta gamma", 7, WrapWrap)
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapHardBreaksOverlongWord(t *testing.T) {
	got := Wrap("supercalifragilistic", 5, WrapWrap)
	for _, line := range got {
		if w := VisibleWidth(line); w > 5 {
			t.Errorf("line %q has width %d, want <= 5", line, w)
		}
	}
	if len(got) != 4 {
		t.Errorf("got %d lines, want 4 (20 chars / 5-cell chunks)", len(got))
	}
}

func TestTruncateEnd(t *testing.T) {
	got := truncateEnd("HelloWorld", 6)
	want := "Hello…"
	if got != want {
		t.Errorf("truncateEnd = %q, want %q", got, want)
	}
}

func TestTruncateStart(t *testing.T) {
	got := truncateStart("HelloWorld", 6)
	want := "…World"
	if got != want {
		t.Errorf("truncateStart = %q, want %q", got, want)
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("HelloWorld", 7)
	if VisibleWidth(got) != 7 {
		t.Errorf("truncateMiddle width = %d, want 7", VisibleWidth(got))
	}
	if got[len(got)-len("…"):] == "" {
		t.Fatal("unexpected empty suffix")
	}
}

func TestSplitWordsWithCols(t *testing.T) {
	spans := splitWordsWithCols("alpha beta  gamma")
	want := []wordSpan{{0, 5}, {6, 10}, {12, 17}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
}
