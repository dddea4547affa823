package glint

import (
	"strconv"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// canvasCell is one occupied terminal column. A wide rune occupies two
// consecutive columns; the second is recorded with r == 0 so the
// serialiser can skip emitting it (§4.F "wide characters reserve two
// columns and suppress the next column's content").
type canvasCell struct {
	set   bool
	r     rune
	style TextStyle
}

// clipRect is a clip rectangle in absolute canvas coordinates. Right and
// Bottom are exclusive.
type clipRect struct {
	Left, Top, Right, Bottom int
}

func (c clipRect) contains(row, col int) bool {
	return row >= c.Top && row < c.Bottom && col >= c.Left && col < c.Right
}

// CompositeOptions mirrors §4.F's options record. OnlyStatic is a frame-
// driver-internal extension (not named by §4.F itself) used to compose
// just the static region in isolation, so the driver can diff it against
// what it already flushed (§4.H, §8 scenario 6).
type CompositeOptions struct {
	SkipStatic bool
	OnlyStatic bool
}

// Compositor rasterises a laid-out tree onto a sparse 2-D canvas, applying
// a clip-rectangle stack and Text transform composition, then serialises
// the canvas to a single styled string (§4.F).
type Compositor struct {
	rows     [][]canvasCell
	width    int
	clips    []clipRect
	profile  Profile
}

// NewCompositor creates a compositor whose canvas is width cells wide;
// rows are added on demand as content is written.
func NewCompositor(width int, profile Profile) *Compositor {
	return &Compositor{width: width, profile: profile}
}

func (c *Compositor) ensureRow(y int) {
	for len(c.rows) <= y {
		c.rows = append(c.rows, make([]canvasCell, c.width))
	}
}

// Compose walks the tree from root and returns the composed string plus
// its line count.
func (c *Compositor) Compose(tree *Tree, root NodeID, opts CompositeOptions) (string, int) {
	c.rows = c.rows[:0]
	c.clips = c.clips[:0]
	c.walk(tree, root, 0, 0, opts, !opts.OnlyStatic)
	return c.serialize(), len(c.rows)
}

func isStaticNode(tree *Tree, id NodeID) bool {
	v, ok := tree.Attribute(id, "static")
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (c *Compositor) walk(tree *Tree, id NodeID, offX, offY int, opts CompositeOptions, active bool) {
	style := tree.Style(id)
	if style.Display == DisplayNone {
		return
	}
	static := isStaticNode(tree, id)
	if opts.SkipStatic && static {
		return
	}
	if opts.OnlyStatic && static {
		active = true
	}

	rect := tree.Computed(id)
	outerX, outerY := offX+rect.Left, offY+rect.Top
	if tree.Kind(id) == KindRoot {
		outerX, outerY = offX, offY
	}

	if !active {
		for _, child := range tree.Children(id) {
			if tree.Kind(child) == KindVirtualText || tree.Kind(child) == KindTextLeaf {
				continue
			}
			c.walk(tree, child, outerX, outerY, opts, active)
		}
		return
	}

	if style.Border.AnyEnabled() {
		drawBorder(c, outerX, outerY, rect.Width, rect.Height, style)
	}

	pushedClip := false
	if style.OverflowX == OverflowHidden || style.OverflowY == OverflowHidden {
		inner := clipRect{
			Left:   outerX + rect.Border.Left + rect.Padding.Left,
			Top:    outerY + rect.Border.Top + rect.Padding.Top,
			Right:  outerX + rect.Width - rect.Border.Right - rect.Padding.Right,
			Bottom: outerY + rect.Height - rect.Border.Bottom - rect.Padding.Bottom,
		}
		if style.OverflowX != OverflowHidden {
			inner.Left, inner.Right = -1<<30, 1<<30
		}
		if style.OverflowY != OverflowHidden {
			inner.Top, inner.Bottom = -1<<30, 1<<30
		}
		c.clips = append(c.clips, inner)
		pushedClip = true
	}

	switch tree.Kind(id) {
	case KindText:
		innerX := outerX + rect.Border.Left + rect.Padding.Left
		innerY := outerY + rect.Border.Top + rect.Padding.Top
		innerW := rect.Width - rect.Border.Left - rect.Border.Right - rect.Padding.Left - rect.Padding.Right
		if innerW < 0 {
			innerW = 0
		}
		raw := squashChildren(tree, id)
		lines := Wrap(raw, innerW, style.TextWrap)
		if fn := tree.Transform(id); fn != nil {
			for i, l := range lines {
				lines[i] = fn(l, i)
			}
		}
		ts := style.TextStyle()
		for i, line := range lines {
			c.writeLine(innerY+i, innerX, StyleText(line, ts))
		}
	default:
		for _, child := range tree.Children(id) {
			if tree.Kind(child) == KindVirtualText || tree.Kind(child) == KindTextLeaf {
				continue
			}
			c.walk(tree, child, outerX, outerY, opts, active)
		}
	}

	if pushedClip {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

// squashChildren concatenates the squashed content of id's children,
// without applying id's own style or transform (that happens once, at the
// outermost traversed Text node, per line after wrapping).
func squashChildren(tree *Tree, id NodeID) string {
	var sb strings.Builder
	for _, ch := range tree.Children(id) {
		sb.WriteString(squash(tree, ch))
	}
	return sb.String()
}

// squash renders a Text/VirtualText/TextLeaf descendant to a single
// inline string. A nested Text node wraps its own children in its own
// style and, if present, applies its own transform — this is the
// "innermost-first" composition order (§4.F, §9): the inner transform
// resolves while this call is still below the outer Text's per-line
// wrap step.
func squash(tree *Tree, id NodeID) string {
	switch tree.Kind(id) {
	case KindTextLeaf:
		return tree.Text(id)
	case KindText:
		content := squashChildren(tree, id)
		content = StyleText(content, tree.Style(id).TextStyle())
		if fn := tree.Transform(id); fn != nil {
			content = fn(content, 0)
		}
		return content
	case KindVirtualText:
		content := squashChildren(tree, id)
		content = StyleText(content, tree.Style(id).TextStyle())
		if fn := tree.Transform(id); fn != nil {
			content = fn(content, 0)
		}
		return content
	default:
		return ""
	}
}

// writeLine decomposes a styled line into cells and writes each visible
// one to the canvas at row, starting at col, applying the active clip
// stack per cell (§4.F "Writing to the canvas").
func (c *Compositor) writeLine(row, col int, styled string) {
	if row < 0 {
		return
	}
	c.ensureRow(row)
	cells := decomposeStyled(styled)
	x := col
	for _, cl := range cells {
		if !c.cellVisible(row, x) {
			x += cl.width
			continue
		}
		if x >= 0 && x < c.width {
			c.rows[row][x] = canvasCell{set: true, r: cl.r, style: cl.style}
		}
		if cl.width == 2 && x+1 >= 0 && x+1 < c.width {
			if c.cellVisible(row, x+1) {
				c.rows[row][x+1] = canvasCell{set: true, r: 0, style: cl.style}
			}
		}
		x += cl.width
	}
}

// setCell writes a single glyph, honoring the active clip stack. Used by
// the border renderer, which writes one glyph at a time rather than a
// styled run.
func (c *Compositor) setCell(row, col int, r rune, style TextStyle) {
	if row < 0 || col < 0 || col >= c.width {
		return
	}
	c.ensureRow(row)
	if !c.cellVisible(row, col) {
		return
	}
	c.rows[row][col] = canvasCell{set: true, r: r, style: style}
}

func (c *Compositor) cellVisible(row, col int) bool {
	for _, clip := range c.clips {
		if !clip.contains(row, col) {
			return false
		}
	}
	return true
}

type styledCell struct {
	r     rune
	width int
	style TextStyle
}

// decomposeStyled walks a string containing SGR escape sequences and
// returns one styledCell per grapheme cluster, carrying the style active
// at that point. This is the inverse of ansi.go's encoder: both agree on
// the same fixed parameter vocabulary.
//
// CSI sequences are pulled out with a byte scan first, not grapheme
// iteration: Unicode cluster breaking treats ESC and each following ASCII
// byte as its own single-rune cluster, so a "\x1b[32m"-style prefix check
// against a single grapheme never matches. Only the plain-text runs
// between escape sequences are handed to uniseg.
func decomposeStyled(s string) []styledCell {
	var out []styledCell
	var cur TextStyle
	for len(s) > 0 {
		if s[0] == 0x1b && len(s) > 1 && s[1] == '[' {
			end := strings.IndexByte(s, 'm')
			if end < 0 {
				break
			}
			applySGR(&cur, s[:end+1])
			s = s[end+1:]
			continue
		}
		next := strings.IndexByte(s, 0x1b)
		var run string
		if next < 0 {
			run, s = s, ""
		} else {
			run, s = s[:next], s[next:]
		}
		gr := uniseg.NewGraphemes(run)
		for gr.Next() {
			text := gr.Str()
			if text == "" {
				continue
			}
			out = append(out, styledCell{r: []rune(text)[0], width: runewidth.StringWidth(text), style: cur})
		}
	}
	return out
}

// applySGR updates cur according to the SGR parameters in seq (a full
// "\x1b[...m" sequence).
func applySGR(cur *TextStyle, seq string) {
	body := strings.TrimSuffix(strings.TrimPrefix(seq, "\x1b["), "m")
	if body == "" {
		return
	}
	parts := strings.Split(body, ";")
	for i := 0; i < len(parts); i++ {
		code, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		switch {
		case code == 0:
			*cur = TextStyle{}
		case code == 1:
			cur.Attrs |= AttrBold
		case code == 2:
			cur.Attrs |= AttrDim
		case code == 3:
			cur.Attrs |= AttrItalic
		case code == 4:
			cur.Attrs |= AttrUnderline
		case code == 7:
			cur.Attrs |= AttrInverse
		case code == 9:
			cur.Attrs |= AttrStrike
		case code == 22:
			cur.Attrs &^= AttrBold | AttrDim
		case code == 23:
			cur.Attrs &^= AttrItalic
		case code == 24:
			cur.Attrs &^= AttrUnderline
		case code == 27:
			cur.Attrs &^= AttrInverse
		case code == 29:
			cur.Attrs &^= AttrStrike
		case code == 39:
			cur.HasFG = false
		case code == 49:
			cur.HasBG = false
		case code >= 30 && code <= 37:
			cur.FG, cur.HasFG = NamedColor(uint8(code-30)), true
		case code >= 40 && code <= 47:
			cur.BG, cur.HasBG = NamedColor(uint8(code-40)), true
		case code >= 90 && code <= 97:
			cur.FG, cur.HasFG = NamedColor(uint8(code-90+8)), true
		case code >= 100 && code <= 107:
			cur.BG, cur.HasBG = NamedColor(uint8(code-100+8)), true
		case code == 38 || code == 48:
			isFG := code == 38
			if i+1 >= len(parts) {
				break
			}
			mode, _ := strconv.Atoi(parts[i+1])
			if mode == 5 && i+2 < len(parts) {
				idx, _ := strconv.Atoi(parts[i+2])
				col := Color{Mode: Color256, Index: uint8(idx)}
				if isFG {
					cur.FG, cur.HasFG = col, true
				} else {
					cur.BG, cur.HasBG = col, true
				}
				i += 2
			} else if mode == 2 && i+4 < len(parts) {
				r, _ := strconv.Atoi(parts[i+2])
				g, _ := strconv.Atoi(parts[i+3])
				b, _ := strconv.Atoi(parts[i+4])
				col := RGB(uint8(r), uint8(g), uint8(b))
				if isFG {
					cur.FG, cur.HasFG = col, true
				} else {
					cur.BG, cur.HasBG = col, true
				}
				i += 4
			}
		}
	}
}

// serialize walks the canvas row by row, emitting active open sequences
// on style transitions and a close sequence at the end of each styled
// run, so the stream stays valid on terminals that do not track state
// across writes (§4.F). Trailing empty rows are trimmed.
func (c *Compositor) serialize() string {
	last := len(c.rows) - 1
	for last >= 0 && rowEmpty(c.rows[last]) {
		last--
	}
	var sb strings.Builder
	for y := 0; y <= last; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := c.rows[y]
		lastCol := -1
		for x, cell := range row {
			if cell.set {
				lastCol = x
			}
		}
		var active TextStyle
		for x := 0; x <= lastCol; x++ {
			cell := row[x]
			if !cell.set || cell.r == 0 {
				if !active.IsZero() {
					sb.WriteString(transitionCodes(active, TextStyle{}, c.profile))
					active = TextStyle{}
				}
				if cell.set && cell.r == 0 {
					continue
				}
				sb.WriteByte(' ')
				continue
			}
			if cell.style != active {
				sb.WriteString(transitionCodes(active, cell.style, c.profile))
				active = cell.style
			}
			sb.WriteRune(cell.r)
		}
		if !active.IsZero() {
			sb.WriteString(transitionCodes(active, TextStyle{}, c.profile))
		}
	}
	return sb.String()
}

// transitionCodes emits only the SGR codes needed to move from one style to
// another in a single escape sequence, so a run that only adds or drops one
// attribute (e.g. bold turning on inside an already-colored run) doesn't pay
// for a full close-then-reopen. Ordering mirrors TextStyle.Close() for the
// codes being turned off, then TextStyle.Open() for the codes being turned
// on, so a transition from or to the zero style is byte-identical to Close()
// or Open(). Colours are downgraded to the compositor's detected profile
// before encoding (§4.A): true-colour is only ever emitted on a profile
// that actually supports it.
func transitionCodes(from, to TextStyle, profile Profile) string {
	to.FG, to.BG = to.FG.Downgrade(profile), to.BG.Downgrade(profile)
	var codes []string

	boldOrDim := AttrBold | AttrDim
	fromBD, toBD := from.Attrs&boldOrDim, to.Attrs&boldOrDim
	if from.Attrs.Has(AttrInverse) && !to.Attrs.Has(AttrInverse) {
		codes = append(codes, "27")
	}
	if from.Attrs.Has(AttrStrike) && !to.Attrs.Has(AttrStrike) {
		codes = append(codes, "29")
	}
	if from.Attrs.Has(AttrUnderline) && !to.Attrs.Has(AttrUnderline) {
		codes = append(codes, "24")
	}
	if from.Attrs.Has(AttrItalic) && !to.Attrs.Has(AttrItalic) {
		codes = append(codes, "23")
	}
	if fromBD != 0 && toBD != fromBD {
		codes = append(codes, "22")
		fromBD = 0
	}
	if from.HasBG && !to.HasBG {
		codes = append(codes, "49")
	}
	if from.HasFG && !to.HasFG {
		codes = append(codes, "39")
	}

	if toBD&AttrDim != 0 && fromBD&AttrDim == 0 {
		codes = append(codes, "2")
	}
	if to.HasFG && (!from.HasFG || from.FG != to.FG) {
		codes = append(codes, to.FG.ansiCode(true))
	}
	if to.HasBG && (!from.HasBG || from.BG != to.BG) {
		codes = append(codes, to.BG.ansiCode(false))
	}
	if toBD&AttrBold != 0 && fromBD&AttrBold == 0 {
		codes = append(codes, "1")
	}
	if to.Attrs.Has(AttrItalic) && !from.Attrs.Has(AttrItalic) {
		codes = append(codes, "3")
	}
	if to.Attrs.Has(AttrUnderline) && !from.Attrs.Has(AttrUnderline) {
		codes = append(codes, "4")
	}
	if to.Attrs.Has(AttrStrike) && !from.Attrs.Has(AttrStrike) {
		codes = append(codes, "9")
	}
	if to.Attrs.Has(AttrInverse) && !from.Attrs.Has(AttrInverse) {
		codes = append(codes, "7")
	}

	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func rowEmpty(row []canvasCell) bool {
	for _, c := range row {
		if c.set {
			return false
		}
	}
	return true
}
