package glint

// Theme is a small set of named styles giving an app a consistent palette
// without every call site repeating colour literals. Each entry sets only
// text fields (foreground colour or attributes); every other field is left
// at its zero value.
type Theme struct {
	Base   Style
	Muted  Style
	Accent Style
	Error  Style
	Border Style
}

func fg(c Color) Style {
	return Style{FG: c, HasFG: true}
}

// ThemeDark favours light foregrounds for a dark terminal background.
var ThemeDark = Theme{
	Base:   fg(NamedColor(15)),
	Muted:  fg(NamedColor(8)),
	Accent: fg(NamedColor(14)),
	Error:  fg(NamedColor(9)),
	Border: fg(NamedColor(8)),
}

// ThemeLight favours dark foregrounds for a light terminal background.
var ThemeLight = Theme{
	Base:   fg(NamedColor(0)),
	Muted:  fg(NamedColor(8)),
	Accent: fg(NamedColor(4)),
	Error:  fg(NamedColor(1)),
	Border: fg(NamedColor(7)),
}

// ThemeMonochrome drops colour entirely and leans on text attributes, for
// profiles that downgrade to ProfileAscii.
var ThemeMonochrome = Theme{
	Base:   Style{},
	Muted:  Style{Attrs: AttrDim},
	Accent: Style{Attrs: AttrBold},
	Error:  Style{Attrs: AttrBold | AttrUnderline},
	Border: Style{Attrs: AttrDim},
}
