package glint

// DimensionKind selects how a Dimension's value is interpreted.
type DimensionKind uint8

const (
	DimAuto DimensionKind = iota
	DimPoints
	DimPercent
)

// Dimension is a width/height/flex-basis/min/max value as the style layer
// hands it to the layout adapter: a numeric cell count, a percentage of the
// parent's content box, or auto.
type Dimension struct {
	Kind  DimensionKind
	Value float32
}

func Auto() Dimension                { return Dimension{Kind: DimAuto} }
func Points(v float32) Dimension      { return Dimension{Kind: DimPoints, Value: v} }
func Percent(v float32) Dimension     { return Dimension{Kind: DimPercent, Value: v} }

// FlexDirection controls the main axis of a Box's children.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
)

// Justify controls main-axis distribution of children.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

// Align controls cross-axis placement, both for a whole line (AlignItems)
// and for a single child overriding its parent (AlignSelf).
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignEnd
	AlignCenter
)

// Display toggles whether a node participates in layout at all.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// Overflow controls whether the compositor clips a node's content box.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

// TextWrap selects the Text measurer's wrap/truncate behaviour.
type TextWrap uint8

const (
	WrapWrap TextWrap = iota
	WrapTruncateEnd
	WrapTruncateStart
	WrapTruncateMiddle
)

// Edges holds one integer per box edge, used for padding, margin and the
// computed border widths; per-edge border colour and dim live in BorderEdge.
type Edges struct {
	Top, Right, Bottom, Left int
}

// UniformEdges builds an Edges record from the CSS-shorthand rules: one
// value applies to all edges, two to (vertical, horizontal), four to
// (top, right, bottom, left).
func UniformEdges(vals ...int) Edges {
	switch len(vals) {
	case 0:
		return Edges{}
	case 1:
		return Edges{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return Edges{vals[0], vals[1], vals[0], vals[1]}
	case 4:
		return Edges{vals[0], vals[1], vals[2], vals[3]}
	default:
		return Edges{}
	}
}

// BorderEdge describes one edge of a node's border.
type BorderEdge struct {
	Enabled bool
	Color   Color
	HasColor bool
	Dim     bool
}

// BorderEdges carries the four independently-stylable border edges.
type BorderEdges struct {
	Top, Right, Bottom, Left BorderEdge
}

func (b BorderEdges) AnyEnabled() bool {
	return b.Top.Enabled || b.Right.Enabled || b.Bottom.Enabled || b.Left.Enabled
}

// BorderKind names one of the border-renderer's glyph sets (§4.G).
type BorderKind uint8

const (
	BorderNone BorderKind = iota
	BorderSingle
	BorderRounded
	BorderDouble
	BorderThick
)

// Style is the full box-model-plus-text record a node carries (§3). Every
// field is a concrete typed value rather than a dynamic map so the
// reconciler's diff (§4.E prepare_update) reduces to field comparison.
type Style struct {
	Width, Height       Dimension
	MinWidth, MinHeight Dimension
	MaxWidth, MaxHeight Dimension

	FlexDirection FlexDirection
	FlexGrow      float32
	FlexShrink    float32
	FlexBasis     Dimension

	JustifyContent Justify
	AlignItems     Align
	AlignSelf      Align

	RowGap, ColumnGap int

	Padding Edges
	Margin  Edges

	Border     BorderEdges
	BorderKind BorderKind

	OverflowX, OverflowY Overflow
	Display              Display
	TextWrap             TextWrap

	FG, BG       Color
	HasFG, HasBG bool
	Attrs        Attr
}

// DefaultStyle mirrors the layout adapter's node-creation defaults (§4.C):
// row direction, no wrap beyond what TextWrap controls, flex-shrink 1.
func DefaultStyle() Style {
	return Style{
		FlexDirection: FlexRow,
		FlexShrink:    1,
		Width:         Auto(),
		Height:        Auto(),
		MinWidth:      Auto(),
		MinHeight:     Auto(),
		MaxWidth:      Auto(),
		MaxHeight:     Auto(),
		FlexBasis:     Auto(),
	}
}

func (s Style) TextStyle() TextStyle {
	return TextStyle{FG: s.FG, BG: s.BG, HasFG: s.HasFG, HasBG: s.HasBG, Attrs: s.Attrs}
}

// Patch is a sparse set of field updates applied by set_style (§4.D). Only
// non-nil pointers are merged; this is the "shallow merge" the spec
// requires without needing a dynamic map representation.
type Patch struct {
	Width, Height                 *Dimension
	MinWidth, MinHeight           *Dimension
	MaxWidth, MaxHeight           *Dimension
	FlexDirection                 *FlexDirection
	FlexGrow, FlexShrink          *float32
	FlexBasis                     *Dimension
	JustifyContent                *Justify
	AlignItems, AlignSelf         *Align
	RowGap, ColumnGap             *int
	Padding, Margin               *Edges
	Border                        *BorderEdges
	BorderKind                    *BorderKind
	OverflowX, OverflowY          *Overflow
	Display                       *Display
	TextWrap                      *TextWrap
	FG, BG                        *Color
	HasFG, HasBG                  *bool
	Attrs                         *Attr
}

// Apply merges p into s, returning the patched copy.
func (s Style) Apply(p Patch) Style {
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.MinWidth != nil {
		s.MinWidth = *p.MinWidth
	}
	if p.MinHeight != nil {
		s.MinHeight = *p.MinHeight
	}
	if p.MaxWidth != nil {
		s.MaxWidth = *p.MaxWidth
	}
	if p.MaxHeight != nil {
		s.MaxHeight = *p.MaxHeight
	}
	if p.FlexDirection != nil {
		s.FlexDirection = *p.FlexDirection
	}
	if p.FlexGrow != nil {
		s.FlexGrow = *p.FlexGrow
	}
	if p.FlexShrink != nil {
		s.FlexShrink = *p.FlexShrink
	}
	if p.FlexBasis != nil {
		s.FlexBasis = *p.FlexBasis
	}
	if p.JustifyContent != nil {
		s.JustifyContent = *p.JustifyContent
	}
	if p.AlignItems != nil {
		s.AlignItems = *p.AlignItems
	}
	if p.AlignSelf != nil {
		s.AlignSelf = *p.AlignSelf
	}
	if p.RowGap != nil {
		s.RowGap = *p.RowGap
	}
	if p.ColumnGap != nil {
		s.ColumnGap = *p.ColumnGap
	}
	if p.Padding != nil {
		s.Padding = *p.Padding
	}
	if p.Margin != nil {
		s.Margin = *p.Margin
	}
	if p.Border != nil {
		s.Border = *p.Border
	}
	if p.BorderKind != nil {
		s.BorderKind = *p.BorderKind
	}
	if p.OverflowX != nil {
		s.OverflowX = *p.OverflowX
	}
	if p.OverflowY != nil {
		s.OverflowY = *p.OverflowY
	}
	if p.Display != nil {
		s.Display = *p.Display
	}
	if p.TextWrap != nil {
		s.TextWrap = *p.TextWrap
	}
	if p.FG != nil {
		s.FG = *p.FG
	}
	if p.BG != nil {
		s.BG = *p.BG
	}
	if p.HasFG != nil {
		s.HasFG = *p.HasFG
	}
	if p.HasBG != nil {
		s.HasBG = *p.HasBG
	}
	if p.Attrs != nil {
		s.Attrs = *p.Attrs
	}
	return s
}

// Equal reports whether two styles hold identical values, used by the
// reconciler's prepare_update to decide whether a style diff is empty.
func (s Style) Equal(o Style) bool {
	return s == o
}
