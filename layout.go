package glint

// LayoutHandle is an opaque reference into the layout solver's own arena,
// owned 1:1 by a Box/Text/Root node (§3). VirtualText and TextLeaf nodes
// never hold one.
type LayoutHandle struct {
	id int
}

// MeasureFunc is the trait the layout adapter installs for Text nodes
// (§4.C, §9 "measure callback closure"): given an available width and the
// node's wrap mode, it returns the squashed text's natural box size.
type MeasureFunc func(availWidth int, wrap TextWrap) (width, height int)

type layoutSlot struct {
	live     bool
	kind     NodeKind
	style    Style
	children []int
	parent   int
	hasParent bool
	measure  MeasureFunc
	computed Rect
}

// Layout wraps a hand-written Flexbox-subset solver (§4.C): a two-pass
// base-size / distribute / position algorithm over the style fields §3
// names, generalizing the same two-pass shape the layout engine adapter's
// teacher used for its row/column-only layout.
type Layout struct {
	slots    []layoutSlot
	freeList []int
}

func NewLayout() *Layout { return &Layout{} }

// AllocHandle allocates a layout node with the adapter's defaults:
// flex-direction row, flex-wrap nowrap (the latter is implicit — this
// solver does not wrap flex lines).
func (l *Layout) AllocHandle(kind NodeKind) LayoutHandle {
	slot := layoutSlot{live: true, kind: kind, style: DefaultStyle()}
	if len(l.freeList) > 0 {
		idx := l.freeList[len(l.freeList)-1]
		l.freeList = l.freeList[:len(l.freeList)-1]
		l.slots[idx] = slot
		return LayoutHandle{id: idx}
	}
	l.slots = append(l.slots, slot)
	return LayoutHandle{id: len(l.slots) - 1}
}

func (l *Layout) FreeHandle(h LayoutHandle) {
	s := &l.slots[h.id]
	s.live = false
	s.children = nil
	s.measure = nil
	l.freeList = append(l.freeList, h.id)
}

func (l *Layout) AppendChild(parent, child LayoutHandle) {
	p := &l.slots[parent.id]
	p.children = append(p.children, child.id)
	c := &l.slots[child.id]
	c.parent, c.hasParent = parent.id, true
}

func (l *Layout) InsertChildAt(parent, child LayoutHandle, index int) {
	p := &l.slots[parent.id]
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = append(p.children, 0)
	copy(p.children[index+1:], p.children[index:len(p.children)-1])
	p.children[index] = child.id
	c := &l.slots[child.id]
	c.parent, c.hasParent = parent.id, true
}

func (l *Layout) RemoveChild(parent, child LayoutHandle) {
	p := &l.slots[parent.id]
	for i, id := range p.children {
		if id == child.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	c := &l.slots[child.id]
	c.parent, c.hasParent = 0, false
}

// CommitStyle translates a node's declarative style into the solver's own
// attributes. Most fields are used as-is; `display: none` is honored by
// the measure/position passes rather than by removing the child here, so
// that toggling display back on needs no re-insertion.
func (l *Layout) CommitStyle(h LayoutHandle, s Style) {
	l.slots[h.id].style = s
}

// InstallMeasure attaches the Text-node measure callback (§4.C).
func (l *Layout) InstallMeasure(h LayoutHandle, fn MeasureFunc) {
	l.slots[h.id].measure = fn
}

func (l *Layout) Rect(h LayoutHandle) Rect { return l.slots[h.id].computed }

// ComputeLayout performs one layout pass with the given outer width and an
// unconstrained height (§4.C). After it returns, every live node's Rect is
// populated with left/top/width/height and the per-edge border/padding
// consumed from its content box.
func (l *Layout) ComputeLayout(root LayoutHandle, availableWidth int) {
	const unconstrained = 1 << 20
	size := l.measureNode(root.id, availableWidth, unconstrained, true, false)
	l.slots[root.id].computed = Rect{Width: size.w, Height: size.h}
	l.positionChildren(root.id, 0, 0, size.w, size.h)
}

type measuredSize struct{ w, h int }

// measureNode computes a node's own box size bottom-up. widthDefined and
// heightDefined say whether availW/availH are hard constraints (from a
// parent's explicit size) or merely an upper bound for auto sizing.
func (l *Layout) measureNode(idx, availW, availH int, widthDefined, heightDefined bool) measuredSize {
	s := &l.slots[idx]
	style := s.style

	innerAvailW := resolveDim(style.Width, availW, widthDefined)
	innerAvailH := resolveDim(style.Height, availH, heightDefined)

	border, padding := edgeBudget(style)
	hBudget := border.Left + border.Right + padding.Left + padding.Right
	vBudget := border.Top + border.Bottom + padding.Top + padding.Bottom

	if s.measure != nil {
		contentW := innerAvailW.val - hBudget
		if contentW < 0 {
			contentW = 0
		}
		w, h := s.measure(contentW, style.TextWrap)
		total := measuredSize{w: clampDim(w+hBudget, style.MinWidth, style.MaxWidth, true), h: clampDim(h+vBudget, style.MinHeight, style.MaxHeight, false)}
		if innerAvailW.defined {
			total.w = innerAvailW.val + hBudget
		}
		if innerAvailH.defined {
			total.h = innerAvailH.val + vBudget
		}
		return total
	}

	children := l.visibleChildren(s)
	contentW := innerAvailW.val - hBudget
	contentH := innerAvailH.val - vBudget
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	mainIsRow := style.FlexDirection == FlexRow
	gap := style.ColumnGap
	if !mainIsRow {
		gap = style.RowGap
	}

	var mainTotal, crossMax int
	childSizes := make([]measuredSize, len(children))
	for i, ci := range children {
		cs := &l.slots[ci]
		cAvailW, cAvailH := contentW, contentH
		cWDef, cHDef := innerAvailW.defined, innerAvailH.defined
		if mainIsRow {
			cHDef = innerAvailH.defined
		}
		_ = cs
		sz := l.measureNode(ci, cAvailW, cAvailH, cWDef, cHDef)
		childSizes[i] = sz
		if mainIsRow {
			mainTotal += sz.w
			if sz.h > crossMax {
				crossMax = sz.h
			}
		} else {
			mainTotal += sz.h
			if sz.w > crossMax {
				crossMax = sz.w
			}
		}
	}
	if len(children) > 1 {
		mainTotal += gap * (len(children) - 1)
	}

	var w, h int
	if mainIsRow {
		w, h = mainTotal, crossMax
	} else {
		w, h = crossMax, mainTotal
	}
	if innerAvailW.defined {
		w = innerAvailW.val
	}
	if innerAvailH.defined {
		h = innerAvailH.val
	}
	w = clampDim(w, style.MinWidth, style.MaxWidth, true)
	h = clampDim(h, style.MinHeight, style.MaxHeight, false)

	s.computed = Rect{Width: w + hBudget, Height: h + vBudget, Border: border, Padding: padding}
	return measuredSize{w: w + hBudget, h: h + vBudget}
}

// positionChildren runs the distribute + position passes for idx's
// children, given idx's own already-measured content box at (x, y) with
// outer size (w, h).
func (l *Layout) positionChildren(idx, x, y, w, h int) {
	s := &l.slots[idx]
	s.computed.Left, s.computed.Top = x, y
	s.computed.Width, s.computed.Height = w, h
	border, padding := s.computed.Border, s.computed.Padding
	if border == (Edges{}) && padding == (Edges{}) {
		border, padding = edgeBudget(s.style)
		s.computed.Border, s.computed.Padding = border, padding
	}

	contentX := x + border.Left + padding.Left
	contentY := y + border.Top + padding.Top
	contentW := w - border.Left - border.Right - padding.Left - padding.Right
	contentH := h - border.Top - border.Bottom - padding.Top - padding.Bottom
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	children := l.visibleChildren(s)
	if len(children) == 0 {
		return
	}
	mainIsRow := s.style.FlexDirection == FlexRow
	gap := s.style.ColumnGap
	if !mainIsRow {
		gap = s.style.RowGap
	}

	mainAvail := contentW
	if !mainIsRow {
		mainAvail = contentH
	}

	sizes := make([]measuredSize, len(children))
	var baseTotal float32
	var totalGrow, totalShrink float32
	for i, ci := range children {
		cs := &l.slots[ci]
		avail := contentW
		if mainIsRow {
			sizes[i] = l.measureNode(ci, contentW, contentH, false, s.style.AlignItems == AlignStretch)
		} else {
			sizes[i] = l.measureNode(ci, contentW, contentH, s.style.AlignItems == AlignStretch, false)
		}
		_ = avail
		main := sizes[i].w
		if !mainIsRow {
			main = sizes[i].h
		}
		baseTotal += float32(main)
		totalGrow += cs.style.FlexGrow
		totalShrink += cs.style.FlexShrink
	}
	if len(children) > 1 {
		baseTotal += float32(gap * (len(children) - 1))
	}

	extra := float32(mainAvail) - baseTotal
	mains := make([]int, len(children))
	for i := range children {
		cs := &l.slots[children[i]]
		main := sizes[i].w
		if !mainIsRow {
			main = sizes[i].h
		}
		if extra > 0 && totalGrow > 0 {
			main += int(extra * cs.style.FlexGrow / totalGrow)
		} else if extra < 0 && totalShrink > 0 {
			main += int(extra * cs.style.FlexShrink / totalShrink)
		}
		if main < 0 {
			main = 0
		}
		mains[i] = main
	}

	used := 0
	for _, m := range mains {
		used += m
	}
	if len(children) > 1 {
		used += gap * (len(children) - 1)
	}
	freeSpace := mainAvail - used
	if freeSpace < 0 {
		freeSpace = 0
	}
	leading, between := justifyOffsets(s.style.JustifyContent, freeSpace, len(children))

	mainPos := leading
	for i, ci := range children {
		cs := &l.slots[ci]
		main := mains[i]
		cross := sizes[i].w
		if mainIsRow {
			cross = sizes[i].h
		} else {
			cross = sizes[i].w
		}
		align := s.style.AlignItems
		if cs.style.AlignSelf != AlignStretch {
			align = cs.style.AlignSelf
		}
		crossAvail := contentH
		if !mainIsRow {
			crossAvail = contentW
		}
		crossPos := 0
		switch align {
		case AlignStretch:
			cross = crossAvail
		case AlignCenter:
			crossPos = (crossAvail - cross) / 2
		case AlignEnd:
			crossPos = crossAvail - cross
		}
		var cx, cy, cw, ch int
		if mainIsRow {
			cx, cy = contentX+mainPos, contentY+crossPos
			cw, ch = main, cross
		} else {
			cx, cy = contentX+crossPos, contentY+mainPos
			cw, ch = cross, main
		}
		l.positionChildren(ci, cx, cy, cw, ch)
		mainPos += main + gap + between
	}
}

func justifyOffsets(j Justify, free, n int) (leading, between int) {
	switch j {
	case JustifyEnd:
		return free, 0
	case JustifyCenter:
		return free / 2, 0
	case JustifySpaceBetween:
		if n > 1 {
			return 0, free / (n - 1)
		}
		return 0, 0
	case JustifySpaceAround:
		if n > 0 {
			unit := free / n
			return unit / 2, unit
		}
		return 0, 0
	default:
		return 0, 0
	}
}

func (l *Layout) visibleChildren(s *layoutSlot) []int {
	out := make([]int, 0, len(s.children))
	for _, ci := range s.children {
		if ci < 0 || l.slots[ci].style.Display == DisplayNone {
			continue
		}
		out = append(out, ci)
	}
	return out
}

type resolved struct {
	val     int
	defined bool
}

// resolveDim resolves a style dimension against its parent's available
// space. Auto defers to the parent: when the parent's own size is definite
// (the terminal column count at the root, or a stretched cross-axis slot),
// auto fills it; otherwise it stays content-based, to be settled by the
// caller's own bottom-up measurement.
func resolveDim(d Dimension, parentAvail int, parentDefined bool) resolved {
	switch d.Kind {
	case DimPoints:
		return resolved{val: int(d.Value), defined: true}
	case DimPercent:
		if parentDefined {
			return resolved{val: int(float32(parentAvail) * d.Value / 100), defined: true}
		}
		return resolved{val: parentAvail, defined: false}
	default:
		if parentDefined {
			return resolved{val: parentAvail, defined: true}
		}
		return resolved{val: parentAvail, defined: false}
	}
}

func clampDim(v int, min, max Dimension, _ bool) int {
	if min.Kind == DimPoints && v < int(min.Value) {
		v = int(min.Value)
	}
	if max.Kind == DimPoints && v > int(max.Value) {
		v = int(max.Value)
	}
	return v
}

// edgeBudget computes the border (§4.C: "border-* sets border width 1 cell
// on any edge whose style is not false") and padding edges a node
// consumes from its outer box.
func edgeBudget(s Style) (border, padding Edges) {
	padding = s.Padding
	if s.Border.Top.Enabled {
		border.Top = 1
	}
	if s.Border.Right.Enabled {
		border.Right = 1
	}
	if s.Border.Bottom.Enabled {
		border.Bottom = 1
	}
	if s.Border.Left.Enabled {
		border.Left = 1
	}
	return
}
