package glint

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Attr is a bitset of boolean text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrStrike
	AttrInverse
)

func (a Attr) Has(flag Attr) bool { return a&flag != 0 }

// TextStyle is the ANSI-codec's view of a node's text styling: the subset of
// Style (§3) the codec encodes. Foreground/background are carried with an
// explicit "set" flag so the zero value means "inherit", not "reset to
// terminal default".
type TextStyle struct {
	FG, BG       Color
	HasFG, HasBG bool
	Attrs        Attr
}

// Open returns the escape sequence that activates this style. Parameter
// order is fixed: dim, fg, bg, bold, italic, underline, strike, inverse —
// required so nested styles compose deterministically (§4.A).
func (s TextStyle) Open() string {
	var codes []string
	if s.Attrs.Has(AttrDim) {
		codes = append(codes, "2")
	}
	if s.HasFG {
		codes = append(codes, s.FG.ansiCode(true))
	}
	if s.HasBG {
		codes = append(codes, s.BG.ansiCode(false))
	}
	if s.Attrs.Has(AttrBold) {
		codes = append(codes, "1")
	}
	if s.Attrs.Has(AttrItalic) {
		codes = append(codes, "3")
	}
	if s.Attrs.Has(AttrUnderline) {
		codes = append(codes, "4")
	}
	if s.Attrs.Has(AttrStrike) {
		codes = append(codes, "9")
	}
	if s.Attrs.Has(AttrInverse) {
		codes = append(codes, "7")
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// Close returns the exact sequence required to unwind this style, reversing
// only what Open activated.
func (s TextStyle) Close() string {
	var codes []string
	if s.Attrs.Has(AttrInverse) {
		codes = append(codes, "27")
	}
	if s.Attrs.Has(AttrStrike) {
		codes = append(codes, "29")
	}
	if s.Attrs.Has(AttrUnderline) {
		codes = append(codes, "24")
	}
	if s.Attrs.Has(AttrItalic) {
		codes = append(codes, "23")
	}
	if s.Attrs.Has(AttrBold) || s.Attrs.Has(AttrDim) {
		codes = append(codes, "22")
	}
	if s.HasBG {
		codes = append(codes, "49")
	}
	if s.HasFG {
		codes = append(codes, "39")
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func (s TextStyle) IsZero() bool {
	return !s.HasFG && !s.HasBG && s.Attrs == 0
}

// StyleText wraps text with s's open and close sequences.
func StyleText(text string, s TextStyle) string {
	if s.IsZero() {
		return text
	}
	return s.Open() + text + s.Close()
}

// VisibleWidth counts the terminal columns text occupies, ignoring escape
// sequences and measuring each grapheme cluster by East Asian Width rules
// (wide runs count 2; combining marks, ZWJ and variation selectors count 0).
func VisibleWidth(text string) int {
	stripped := ansi.Strip(text)
	width := 0
	state := -1
	for len(stripped) > 0 {
		var cluster string
		var clusterWidth int
		cluster, stripped, clusterWidth, state = uniseg.FirstGraphemeClusterInString(stripped, state)
		_ = cluster
		width += clusterWidth
	}
	return width
}

// Slice returns the substring spanning visible columns [start, end), with
// any escape sequence active at the cut point re-emitted so the slice's
// styling is self-contained. Escape sequences the codec never produced are
// passed through verbatim.
func Slice(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return ansi.Cut(text, start, end)
}

// StripEscapes removes every ANSI escape sequence from text, used by tests
// that check content equality independent of styling.
func StripEscapes(text string) string {
	return ansi.Strip(text)
}

// runeVisibleWidth is the fallback per-rune width used by the word-boundary
// splitter, which operates rune-at-a-time rather than cluster-at-a-time.
func runeVisibleWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
