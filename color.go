package glint

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ColorMode selects how a Color's channels are interpreted.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorNamed
	Color256
	ColorRGB
)

// Color is a terminal colour in one of three representations. Named colours
// carry an index into the 16-entry basic palette (0-7 normal, 8-15 bright);
// RGB colours carry true 24-bit channels and are downgraded at emission time
// according to the detected terminal Profile.
type Color struct {
	Mode  ColorMode
	Index uint8
	R, G, B uint8
}

// DefaultColor leaves the terminal's own foreground/background untouched.
func DefaultColor() Color { return Color{Mode: ColorDefault} }

// NamedColor returns one of the 16 basic palette entries.
func NamedColor(index uint8) Color { return Color{Mode: ColorNamed, Index: index % 16} }

// RGB builds a true-colour value.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

var namedColors = map[string]uint8{
	"black": 0, "red": 1, "green": 2, "yellow": 3, "blue": 4, "magenta": 5, "cyan": 6, "white": 7,
	"brightblack": 8, "gray": 8, "grey": 8,
	"brightred": 9, "brightgreen": 10, "brightyellow": 11, "brightblue": 12,
	"brightmagenta": 13, "brightcyan": 14, "brightwhite": 15,
}

// ParseColor accepts a 6-digit hex literal, rgb()/hsl() functional syntax, or
// one of the 16 basic colour names. It never errors: an unrecognised string
// returns (Color{}, false) so callers can silently keep the previous value,
// matching the "bad style value" contract.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{}, false
	}
	if idx, ok := namedColors[s]; ok {
		return NamedColor(idx), true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBFunc(s)
	}
	if strings.HasPrefix(s, "hsl(") && strings.HasSuffix(s, ")") {
		return parseHSLFunc(s)
	}
	return Color{}, false
}

func parseHexColor(s string) (Color, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), true
}

func parseRGBFunc(s string) (Color, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return Color{}, false
	}
	var vals [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		vals[i] = uint8(n)
	}
	return RGB(vals[0], vals[1], vals[2]), true
}

func parseHSLFunc(s string) (Color, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "hsl("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return Color{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Color{}, false
	}
	s1, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(parts[1], "%")), 64)
	if err != nil {
		return Color{}, false
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(parts[2], "%")), 64)
	if err != nil {
		return Color{}, false
	}
	col := colorful.Hsl(math.Mod(h, 360), clamp01(s1/100), clamp01(l/100))
	r, g, b := col.Clamped().RGB255()
	return RGB(r, g, b), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Profile describes the colour depth the attached terminal supports.
type Profile int

const (
	ProfileAscii Profile = iota
	ProfileANSI
	ProfileANSI256
	ProfileTrueColor
)

// DetectProfile probes COLORTERM and TERM the way the frame driver's
// downstream contract requires, via termenv's environment scan.
func DetectProfile() Profile {
	switch termenv.EnvColorProfile() {
	case termenv.TrueColor:
		return ProfileTrueColor
	case termenv.ANSI256:
		return ProfileANSI256
	case termenv.ANSI:
		return ProfileANSI
	default:
		return ProfileAscii
	}
}

// ColumnsFromEnv implements the §6 fallback: COLUMNS, else 80.
func ColumnsFromEnv() int {
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 80
}

// Downgrade converts an RGB colour to the nearest representation the given
// profile can display. Named colours and the default colour pass through
// unchanged; only true-colour values are downgraded.
func (c Color) Downgrade(p Profile) Color {
	if c.Mode != ColorRGB || p == ProfileTrueColor {
		return c
	}
	if p == ProfileAscii {
		return Color{Mode: ColorDefault}
	}
	target := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	if p == ProfileANSI {
		best, bestDist := uint8(0), math.MaxFloat64
		for i := uint8(0); i < 16; i++ {
			r, g, b := ansi16Palette[i][0], ansi16Palette[i][1], ansi16Palette[i][2]
			d := target.DistanceLab(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		return NamedColor(best)
	}
	best, bestDist := 0, math.MaxFloat64
	for i := 0; i < 256; i++ {
		r, g, b := xterm256Palette(i)
		d := target.DistanceLab(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return Color{Mode: Color256, Index: uint8(best)}
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0}, {0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0}, {92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// xterm256Palette computes the standard xterm 256-colour cube/grayscale RGB
// value for index i, without needing a hand-copied lookup table.
func xterm256Palette(i int) (uint8, uint8, uint8) {
	if i < 16 {
		return ansi16Palette[i][0], ansi16Palette[i][1], ansi16Palette[i][2]
	}
	if i < 232 {
		i -= 16
		r := i / 36
		g := (i % 36) / 6
		b := i % 6
		steps := [6]uint8{0, 95, 135, 175, 215, 255}
		return steps[r], steps[g], steps[b]
	}
	level := uint8(8 + (i-232)*10)
	return level, level, level
}

// ansiCode returns the SGR parameter code used when opening the given
// colour as foreground (fg=true) or background.
func (c Color) ansiCode(fg bool) string {
	switch c.Mode {
	case ColorDefault:
		if fg {
			return "39"
		}
		return "49"
	case ColorNamed:
		base := 30
		idx := c.Index
		if idx >= 8 {
			base = 90
			idx -= 8
		}
		if !fg {
			base += 10
		}
		return strconv.Itoa(base + int(idx))
	case Color256:
		if fg {
			return fmt.Sprintf("38;5;%d", c.Index)
		}
		return fmt.Sprintf("48;5;%d", c.Index)
	case ColorRGB:
		if fg {
			return fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
		}
		return fmt.Sprintf("48;2;%d;%d;%d", c.R, c.G, c.B)
	default:
		if fg {
			return "39"
		}
		return "49"
	}
}
