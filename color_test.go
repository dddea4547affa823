package glint

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantOk  bool
		wantMode ColorMode
	}{
		{"red", true, ColorNamed},
		{"brightcyan", true, ColorNamed},
		{"#ff0000", true, ColorRGB},
		{"rgb(10, 20, 30)", true, ColorRGB},
		{"hsl(120, 100%, 50%)", true, ColorRGB},
		{"not-a-color", false, ColorDefault},
		{"", false, ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := ParseColor(tt.in)
			if ok != tt.wantOk {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOk)
			}
			if ok && c.Mode != tt.wantMode {
				t.Errorf("ParseColor(%q).Mode = %v, want %v", tt.in, c.Mode, tt.wantMode)
			}
		})
	}
}

func TestParseColorHexRGBValues(t *testing.T) {
	c, ok := ParseColor("#102030")
	if !ok {
		t.Fatal("expected ok")
	}
	if c.R != 0x10 || c.G != 0x20 || c.B != 0x30 {
		t.Errorf("got R=%d G=%d B=%d", c.R, c.G, c.B)
	}
}

func TestDowngradeTrueColorPassthrough(t *testing.T) {
	c := RGB(12, 34, 56)
	got := c.Downgrade(ProfileTrueColor)
	if got != c {
		t.Errorf("Downgrade(TrueColor) = %+v, want unchanged %+v", got, c)
	}
}

func TestDowngradeAsciiDropsColor(t *testing.T) {
	c := RGB(200, 10, 10)
	got := c.Downgrade(ProfileAscii)
	if got.Mode != ColorDefault {
		t.Errorf("Downgrade(Ascii).Mode = %v, want ColorDefault", got.Mode)
	}
}

func TestDowngradeANSI256NearestPureRed(t *testing.T) {
	c := RGB(255, 0, 0)
	got := c.Downgrade(ProfileANSI256)
	if got.Mode != Color256 {
		t.Fatalf("Downgrade(ANSI256).Mode = %v, want Color256", got.Mode)
	}
	r, g, b := xterm256Palette(int(got.Index))
	if r < 200 || g > 60 || b > 60 {
		t.Errorf("nearest 256 palette entry for pure red was (%d,%d,%d)", r, g, b)
	}
}

func TestNamedColorWraps(t *testing.T) {
	c := NamedColor(20)
	if c.Index != 4 {
		t.Errorf("NamedColor(20).Index = %d, want 4 (20%%16)", c.Index)
	}
}
