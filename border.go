package glint

import "github.com/charmbracelet/lipgloss"

// borderGlyphs returns the eight glyphs a box border needs, sourced from
// lipgloss's named border sets (§4.G) rather than a hand-rolled table.
func borderGlyphs(kind BorderKind) (top, bottom, left, right rune, tl, tr, bl, br rune) {
	var b lipgloss.Border
	switch kind {
	case BorderRounded:
		b = lipgloss.RoundedBorder()
	case BorderDouble:
		b = lipgloss.DoubleBorder()
	case BorderThick:
		b = lipgloss.ThickBorder()
	default:
		b = lipgloss.NormalBorder()
	}
	rn := func(s string, fallback rune) rune {
		if s == "" {
			return fallback
		}
		return []rune(s)[0]
	}
	return rn(b.Top, '─'), rn(b.Bottom, '─'), rn(b.Left, '│'), rn(b.Right, '│'),
		rn(b.TopLeft, '┌'), rn(b.TopRight, '┐'), rn(b.BottomLeft, '└'), rn(b.BottomRight, '┘')
}

// drawBorder emits the glyphs for every enabled edge of the node's outer
// rectangle (x, y, w, h). Corner glyphs always use the top edge's style
// when top and an adjacent side disagree, so borders can be partially
// disabled without corner ambiguity (§4.G).
func drawBorder(c *Compositor, x, y, w, h int, style Style) {
	if w <= 0 || h <= 0 {
		return
	}
	top, bottom, left, right, tl, tr, bl, br := borderGlyphs(style.BorderKind)

	topStyle := edgeTextStyle(style.Border.Top)
	bottomStyle := edgeTextStyle(style.Border.Bottom)
	leftStyle := edgeTextStyle(style.Border.Left)
	rightStyle := edgeTextStyle(style.Border.Right)

	if style.Border.Top.Enabled {
		for cx := x + 1; cx < x+w-1; cx++ {
			c.setCell(y, cx, top, topStyle)
		}
	}
	if style.Border.Bottom.Enabled {
		for cx := x + 1; cx < x+w-1; cx++ {
			c.setCell(y+h-1, cx, bottom, bottomStyle)
		}
	}
	if style.Border.Left.Enabled {
		for cy := y + 1; cy < y+h-1; cy++ {
			c.setCell(cy, x, left, leftStyle)
		}
	}
	if style.Border.Right.Enabled {
		for cy := y + 1; cy < y+h-1; cy++ {
			c.setCell(cy, x+w-1, right, rightStyle)
		}
	}

	// Corners always take the top edge's style when top disagrees with an
	// adjacent side (§4.G); bottom corners fall back to the bottom edge's
	// own style since the spec only disambiguates the top row.
	topCorner := topStyle
	if !style.Border.Top.Enabled {
		topCorner = leftStyle
	}
	if style.Border.Top.Enabled || style.Border.Left.Enabled {
		c.setCell(y, x, tl, topCorner)
	}
	topCornerR := topStyle
	if !style.Border.Top.Enabled {
		topCornerR = rightStyle
	}
	if style.Border.Top.Enabled || style.Border.Right.Enabled {
		c.setCell(y, x+w-1, tr, topCornerR)
	}
	if style.Border.Bottom.Enabled || style.Border.Left.Enabled {
		c.setCell(y+h-1, x, bl, bottomStyle)
	}
	if style.Border.Bottom.Enabled || style.Border.Right.Enabled {
		c.setCell(y+h-1, x+w-1, br, bottomStyle)
	}
}

func edgeTextStyle(e BorderEdge) TextStyle {
	ts := TextStyle{}
	if e.HasColor {
		ts.FG, ts.HasFG = e.Color, true
	}
	if e.Dim {
		ts.Attrs |= AttrDim
	}
	return ts
}
