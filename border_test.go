package glint

import "testing"

func TestBorderGlyphsBySet(t *testing.T) {
	cases := []struct {
		kind    BorderKind
		wantTL  rune
		wantTop rune
	}{
		{BorderSingle, '┌', '─'},
		{BorderRounded, '╭', '─'},
		{BorderDouble, '╔', '═'},
		{BorderThick, '┏', '━'},
	}
	for _, tc := range cases {
		top, _, _, _, tl, _, _, _ := borderGlyphs(tc.kind)
		if top != tc.wantTop {
			t.Errorf("kind %v: top = %q, want %q", tc.kind, top, tc.wantTop)
		}
		if tl != tc.wantTL {
			t.Errorf("kind %v: top-left = %q, want %q", tc.kind, tl, tc.wantTL)
		}
	}
}

func allEnabledStyle(w, h int) Style {
	s := DefaultStyle()
	s.Width, s.Height = Points(float32(w)), Points(float32(h))
	s.Border = BorderEdges{
		Top:    BorderEdge{Enabled: true},
		Right:  BorderEdge{Enabled: true},
		Bottom: BorderEdge{Enabled: true},
		Left:   BorderEdge{Enabled: true},
	}
	return s
}

func TestDrawBorderAllEdgesProducesBox(t *testing.T) {
	c := NewCompositor(10, ProfileTrueColor)
	c.ensureRow(2)
	style := allEnabledStyle(5, 3)
	drawBorder(c, 0, 0, 5, 3, style)

	top, _, left, _, tl, tr, bl, br := borderGlyphs(BorderSingle)
	if c.rows[0][0].r != tl || c.rows[0][4].r != tr {
		t.Errorf("top corners = %q,%q want %q,%q", c.rows[0][0].r, c.rows[0][4].r, tl, tr)
	}
	if c.rows[2][0].r != bl || c.rows[2][4].r != br {
		t.Errorf("bottom corners = %q,%q want %q,%q", c.rows[2][0].r, c.rows[2][4].r, bl, br)
	}
	if c.rows[0][1].r != top {
		t.Errorf("top edge cell = %q, want %q", c.rows[0][1].r, top)
	}
	if c.rows[1][0].r != left {
		t.Errorf("left edge cell = %q, want %q", c.rows[1][0].r, left)
	}
}

// §4.G: corners take the top edge's style whenever top and an adjacent side
// disagree.
func TestDrawBorderTopCornerStyleWinsOverLeft(t *testing.T) {
	c := NewCompositor(10, ProfileTrueColor)
	c.ensureRow(2)
	style := allEnabledStyle(5, 3)
	style.Border.Top.HasColor, style.Border.Top.Color = true, NamedColor(2)
	style.Border.Left.HasColor, style.Border.Left.Color = true, NamedColor(1)
	drawBorder(c, 0, 0, 5, 3, style)

	tl := c.rows[0][0]
	if !tl.style.HasFG || tl.style.FG != NamedColor(2) {
		t.Errorf("top-left corner style = %+v, want top's color (green)", tl.style)
	}
}

func TestDrawBorderDisabledTopFallsBackToLeft(t *testing.T) {
	c := NewCompositor(10, ProfileTrueColor)
	c.ensureRow(2)
	style := allEnabledStyle(5, 3)
	style.Border.Top.Enabled = false
	style.Border.Left.HasColor, style.Border.Left.Color = true, NamedColor(1)
	drawBorder(c, 0, 0, 5, 3, style)

	tl := c.rows[0][0]
	if !tl.style.HasFG || tl.style.FG != NamedColor(1) {
		t.Errorf("top-left corner style = %+v, want left's color when top disabled", tl.style)
	}
	if c.rows[0][1].set {
		t.Error("top edge cell should be unset when top border is disabled")
	}
}

func TestDrawBorderZeroSizeNoOp(t *testing.T) {
	c := NewCompositor(10, ProfileTrueColor)
	style := allEnabledStyle(0, 0)
	drawBorder(c, 0, 0, 0, 0, style)
	if len(c.rows) != 0 {
		t.Errorf("zero-size border should not touch the canvas, got %d rows", len(c.rows))
	}
}

func TestEdgeTextStyleCarriesColorAndDim(t *testing.T) {
	e := BorderEdge{Enabled: true, HasColor: true, Color: NamedColor(3), Dim: true}
	ts := edgeTextStyle(e)
	if !ts.HasFG || ts.FG != NamedColor(3) {
		t.Errorf("edgeTextStyle FG = %+v, want NamedColor(3)", ts)
	}
	if !ts.Attrs.Has(AttrDim) {
		t.Error("edgeTextStyle should carry AttrDim")
	}
}
