package glint

import "reflect"

// HostContext mirrors the React-style host context threaded through the
// tree during create_instance (§4.E). Identity is preserved when the flag
// does not change, expressed here simply as value equality since
// HostContext is a plain comparable struct — cheaper than a pointer
// identity scheme and sufficient for the runtime to skip propagation.
type HostContext struct {
	InsideText bool
}

// Props is the prop bag the upstream diffing framework hands to
// create_instance / prepare_update. "style", "children" and "transform"
// are reserved keys handled specially; everything else becomes an
// attribute.
type Props map[string]any

// UpdatePayload is what prepare_update returns: the sub-diffed style patch
// (so layout can be patched in one call) plus the remaining attribute
// changes, where a nil value means the key was removed.
type UpdatePayload struct {
	StylePatch   *Patch
	HasTransform bool
	Transform    Transform
	Attrs        map[string]any
}

// Reconciler implements the host-config callback surface (§6) a
// retained-mode diffing runtime calls to mutate the Tree.
type Reconciler struct {
	tree            *Tree
	currentPriority int
}

func NewReconciler(tree *Tree) *Reconciler {
	return &Reconciler{tree: tree}
}

const defaultPriority = 0

// GetRootHostContext is the initial context: {inside_text: false}.
func (r *Reconciler) GetRootHostContext() HostContext {
	return HostContext{InsideText: false}
}

// GetChildHostContext computes the child's context. Entering a Text or
// VirtualText child flips inside_text to true; it is never cleared once
// set on a path toward a TextLeaf, matching "Text's subtree contains only
// Text/VirtualText/TextLeaf" (§3 invariant 1).
func (r *Reconciler) GetChildHostContext(parent HostContext, childType string) HostContext {
	if childType == "text" {
		return HostContext{InsideText: true}
	}
	return parent
}

// CreateInstance allocates a node of typeName; inside a text ancestor a
// "text" typeName is demoted to VirtualText (§4.E).
func (r *Reconciler) CreateInstance(typeName string, props Props, ctx HostContext) (NodeID, error) {
	kind := KindBox
	switch typeName {
	case "text":
		kind = KindText
		if ctx.InsideText {
			kind = KindVirtualText
		}
	case "box":
		kind = KindBox
	default:
		kind = KindBox
	}
	id := r.tree.CreateNode(kind)
	for key, val := range props {
		switch key {
		case "children":
			continue
		case "style":
			if patch, ok := val.(Patch); ok {
				r.tree.SetStyle(id, patch)
			} else if style, ok := val.(Style); ok {
				r.tree.SetStyle(id, styleToPatch(style))
			}
		case "transform":
			if fn, ok := val.(Transform); ok {
				r.tree.SetTransform(id, fn)
			}
		default:
			r.tree.SetAttribute(id, key, val)
		}
	}
	return id, nil
}

// CreateTextInstance fails fatally outside a text ancestor (§3 invariant 2).
func (r *Reconciler) CreateTextInstance(text string, ctx HostContext) (NodeID, error) {
	return r.tree.CreateTextLeaf(text, ctx.InsideText)
}

func (r *Reconciler) AppendInitialChild(parent, child NodeID) { r.tree.AppendChild(parent, child) }
func (r *Reconciler) AppendChild(parent, child NodeID)        { r.tree.AppendChild(parent, child) }
func (r *Reconciler) AppendChildToContainer(container, child NodeID) {
	r.tree.AppendChild(container, child)
}
func (r *Reconciler) InsertBefore(parent, child, ref NodeID) { r.tree.InsertBefore(parent, child, ref) }
func (r *Reconciler) InsertInContainerBefore(container, child, ref NodeID) {
	r.tree.InsertBefore(container, child, ref)
}
func (r *Reconciler) RemoveChild(parent, child NodeID) { r.tree.RemoveChild(parent, child) }
func (r *Reconciler) RemoveChildFromContainer(container, child NodeID) {
	r.tree.RemoveChild(container, child)
}

// PrepareUpdate diffs two prop bags using the spec's rule: identical
// references (here, reflect.DeepEqual) skip; keys present in old but
// missing in new become nil in the payload; keys whose value differs are
// included. Returns (nil, false) when both the style and attribute diffs
// are empty.
func (r *Reconciler) PrepareUpdate(old, new Props) (*UpdatePayload, bool) {
	payload := &UpdatePayload{Attrs: map[string]any{}}
	changed := false

	oldStyle, oldHasStyle := styleProp(old)
	newStyle, newHasStyle := styleProp(new)
	if oldHasStyle || newHasStyle {
		if patch := diffStyle(oldStyle, newStyle); patch != nil {
			payload.StylePatch = patch
			changed = true
		}
	}

	oldTransform, oldHasT := old["transform"]
	newTransform, newHasT := new["transform"]
	if oldHasT != newHasT || !sameTransform(oldTransform, newTransform) {
		if newHasT {
			if fn, ok := newTransform.(Transform); ok {
				payload.Transform = fn
			}
		}
		payload.HasTransform = true
		changed = true
	}

	for key, oldVal := range old {
		if key == "style" || key == "children" || key == "transform" {
			continue
		}
		newVal, stillPresent := new[key]
		if !stillPresent {
			payload.Attrs[key] = nil
			changed = true
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			payload.Attrs[key] = newVal
			changed = true
		}
	}
	for key, newVal := range new {
		if key == "style" || key == "children" || key == "transform" {
			continue
		}
		if _, existed := old[key]; !existed {
			payload.Attrs[key] = newVal
			changed = true
		}
	}

	if !changed {
		return nil, false
	}
	return payload, true
}

func sameTransform(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	af, aok := a.(Transform)
	bf, bok := b.(Transform)
	if !aok || !bok {
		return a == nil && b == nil
	}
	return reflect.ValueOf(af).Pointer() == reflect.ValueOf(bf).Pointer()
}

func styleProp(p Props) (Style, bool) {
	v, ok := p["style"]
	if !ok {
		return Style{}, false
	}
	switch s := v.(type) {
	case Style:
		return s, true
	case Patch:
		return DefaultStyle().Apply(s), true
	default:
		return Style{}, false
	}
}

// diffStyle reduces two full style records to a field-by-field Patch,
// matching the "struct-of-optionals" design note (§9): the reconciler's
// diff is plain comparison, not a dynamic map walk.
func diffStyle(oldS, newS Style) *Patch {
	if oldS.Equal(newS) {
		return nil
	}
	p := &Patch{}
	if oldS.Width != newS.Width {
		v := newS.Width
		p.Width = &v
	}
	if oldS.Height != newS.Height {
		v := newS.Height
		p.Height = &v
	}
	if oldS.MinWidth != newS.MinWidth {
		v := newS.MinWidth
		p.MinWidth = &v
	}
	if oldS.MinHeight != newS.MinHeight {
		v := newS.MinHeight
		p.MinHeight = &v
	}
	if oldS.MaxWidth != newS.MaxWidth {
		v := newS.MaxWidth
		p.MaxWidth = &v
	}
	if oldS.MaxHeight != newS.MaxHeight {
		v := newS.MaxHeight
		p.MaxHeight = &v
	}
	if oldS.FlexDirection != newS.FlexDirection {
		v := newS.FlexDirection
		p.FlexDirection = &v
	}
	if oldS.FlexGrow != newS.FlexGrow {
		v := newS.FlexGrow
		p.FlexGrow = &v
	}
	if oldS.FlexShrink != newS.FlexShrink {
		v := newS.FlexShrink
		p.FlexShrink = &v
	}
	if oldS.FlexBasis != newS.FlexBasis {
		v := newS.FlexBasis
		p.FlexBasis = &v
	}
	if oldS.JustifyContent != newS.JustifyContent {
		v := newS.JustifyContent
		p.JustifyContent = &v
	}
	if oldS.AlignItems != newS.AlignItems {
		v := newS.AlignItems
		p.AlignItems = &v
	}
	if oldS.AlignSelf != newS.AlignSelf {
		v := newS.AlignSelf
		p.AlignSelf = &v
	}
	if oldS.RowGap != newS.RowGap {
		v := newS.RowGap
		p.RowGap = &v
	}
	if oldS.ColumnGap != newS.ColumnGap {
		v := newS.ColumnGap
		p.ColumnGap = &v
	}
	if oldS.Padding != newS.Padding {
		v := newS.Padding
		p.Padding = &v
	}
	if oldS.Margin != newS.Margin {
		v := newS.Margin
		p.Margin = &v
	}
	if oldS.Border != newS.Border {
		v := newS.Border
		p.Border = &v
	}
	if oldS.BorderKind != newS.BorderKind {
		v := newS.BorderKind
		p.BorderKind = &v
	}
	if oldS.OverflowX != newS.OverflowX {
		v := newS.OverflowX
		p.OverflowX = &v
	}
	if oldS.OverflowY != newS.OverflowY {
		v := newS.OverflowY
		p.OverflowY = &v
	}
	if oldS.Display != newS.Display {
		v := newS.Display
		p.Display = &v
	}
	if oldS.TextWrap != newS.TextWrap {
		v := newS.TextWrap
		p.TextWrap = &v
	}
	if oldS.FG != newS.FG {
		v := newS.FG
		p.FG = &v
	}
	if oldS.BG != newS.BG {
		v := newS.BG
		p.BG = &v
	}
	if oldS.HasFG != newS.HasFG {
		v := newS.HasFG
		p.HasFG = &v
	}
	if oldS.HasBG != newS.HasBG {
		v := newS.HasBG
		p.HasBG = &v
	}
	if oldS.Attrs != newS.Attrs {
		v := newS.Attrs
		p.Attrs = &v
	}
	return p
}

func styleToPatch(s Style) Patch {
	return Patch{
		Width: &s.Width, Height: &s.Height,
		MinWidth: &s.MinWidth, MinHeight: &s.MinHeight,
		MaxWidth: &s.MaxWidth, MaxHeight: &s.MaxHeight,
		FlexDirection: &s.FlexDirection, FlexGrow: &s.FlexGrow, FlexShrink: &s.FlexShrink, FlexBasis: &s.FlexBasis,
		JustifyContent: &s.JustifyContent, AlignItems: &s.AlignItems, AlignSelf: &s.AlignSelf,
		RowGap: &s.RowGap, ColumnGap: &s.ColumnGap,
		Padding: &s.Padding, Margin: &s.Margin,
		Border: &s.Border, BorderKind: &s.BorderKind,
		OverflowX: &s.OverflowX, OverflowY: &s.OverflowY,
		Display: &s.Display, TextWrap: &s.TextWrap,
		FG: &s.FG, BG: &s.BG, HasFG: &s.HasFG, HasBG: &s.HasBG, Attrs: &s.Attrs,
	}
}

// CommitUpdate applies a prepared payload: style changes via the layout
// adapter, attribute changes via set_attribute, and a transform change if
// present (§4.E).
func (r *Reconciler) CommitUpdate(node NodeID, payload *UpdatePayload) {
	if payload == nil {
		return
	}
	if payload.StylePatch != nil {
		r.tree.SetStyle(node, *payload.StylePatch)
	}
	if payload.HasTransform {
		r.tree.SetTransform(node, payload.Transform)
	}
	for key, val := range payload.Attrs {
		r.tree.SetAttribute(node, key, val)
	}
}

func (r *Reconciler) ResetTextContent(node NodeID) { r.tree.SetText(node, "") }
func (r *Reconciler) CommitTextUpdate(node NodeID, text string) {
	r.tree.SetText(node, text)
}

// PrepareForCommit is called before mutations are applied; the core has no
// DOM-like focus/selection state to snapshot, so it is a no-op returning
// nil, matching hosts that don't need commit-time restoration.
func (r *Reconciler) PrepareForCommit() any { return nil }

// ResetAfterCommit is the commit lifecycle hook (§4.E): it drives exactly
// one repaint per commit. Static content must reach the terminal on the
// same commit that appended it, bypassing the rate limiter — so the
// static-dirty branch returns early instead of also calling on_render.
func (r *Reconciler) ResetAfterCommit(root NodeID) {
	n := r.tree.get(root)
	if n == nil {
		return
	}
	if n.onComputeLayout != nil {
		n.onComputeLayout()
	}
	if n.staticDirty {
		n.staticDirty = false
		if n.onImmediateRender != nil {
			n.onImmediateRender()
		}
		return
	}
	if n.onRender != nil {
		n.onRender()
	}
}

// Scheduling priority back-channel (§4.E): these do not affect
// correctness, they only expose the hook the host framework's scheduler
// polls to batch updates.
func (r *Reconciler) GetCurrentEventPriority() int { return r.currentPriority }
func (r *Reconciler) ResolveUpdatePriority() int {
	if r.currentPriority == 0 {
		return defaultPriority
	}
	return r.currentPriority
}
func (r *Reconciler) SetCurrentUpdatePriority(p int) { r.currentPriority = p }
