package glint

import "fmt"

// NodeKind tags the variant a Node represents (§3).
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindBox
	KindText
	KindVirtualText
	KindTextLeaf
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindBox:
		return "Box"
	case KindText:
		return "Text"
	case KindVirtualText:
		return "VirtualText"
	case KindTextLeaf:
		return "TextLeaf"
	default:
		return "Unknown"
	}
}

// NodeID is a stable handle into the tree's arena. The zero value never
// names a live node.
type NodeID uint32

// Transform is applied to a Text node's composed output, one call per
// output line, receiving a zero-based line index.
type Transform func(text string, lineIndex int) string

// Rect is a computed box in integer cells, as produced by the layout
// adapter (§4.C) for every node after compute_layout.
type Rect struct {
	Left, Top, Width, Height int
	Border, Padding          Edges
}

// node is the arena slot backing a NodeID. Fields beyond Kind/Parent/
// Children/Style/Attributes/LayoutHandle/Computed are Text-only,
// TextLeaf-only or Root-only and are simply left zero for other kinds.
type node struct {
	kind NodeKind
	live bool

	parent   NodeID
	hasParent bool
	children []NodeID

	style      Style
	attributes map[string]any
	transform  Transform

	layoutHandle    LayoutHandle
	hasLayoutHandle bool
	computed        Rect

	text string // TextLeaf content

	// Root-only fields.
	onComputeLayout  func()
	onRender         func()
	onImmediateRender func()
	staticDirty      bool
}

// Tree is the mutable node arena the reconciler (§4.E) drives through the
// node-tree primitives (§4.D). Free slots are recycled by index so NodeIDs
// stay stable across the lifetime of a non-deleted node, mirroring the
// "arena with stable indices" design note (§9).
type Tree struct {
	slots    []node
	freeList []NodeID
	layout   *Layout
}

// NewTree creates an empty arena bound to a layout engine instance.
func NewTree(l *Layout) *Tree {
	return &Tree{layout: l}
}

// InvariantError reports a fatal structural violation (§7.1): it names the
// offending node kind and, where known, its tree position.
type InvariantError struct {
	Node NodeKind
	Pos  string
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("glint: invariant violation at %s (%s): %s", e.Node, e.Pos, e.Msg)
}

func (t *Tree) alloc(kind NodeKind) NodeID {
	n := node{kind: kind, live: true, style: DefaultStyle(), attributes: map[string]any{}}
	if len(t.freeList) > 0 {
		id := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.slots[id] = n
		return id
	}
	t.slots = append(t.slots, n)
	return NodeID(len(t.slots) - 1)
}

func (t *Tree) get(id NodeID) *node {
	if int(id) >= len(t.slots) || !t.slots[id].live {
		return nil
	}
	return &t.slots[id]
}

// CreateNode allocates a node of kind, with a fresh layout handle unless
// kind is VirtualText or TextLeaf (neither owns layout state). A Text node
// additionally gets a measure callback installed (§4.C): the solver calls
// it with an available width and wrap mode, and it squashes the node's own
// descendants (§4.F) and measures the result.
func (t *Tree) CreateNode(kind NodeKind) NodeID {
	id := t.alloc(kind)
	n := t.get(id)
	if kind != KindVirtualText && kind != KindTextLeaf {
		n.layoutHandle = t.layout.AllocHandle(kind)
		n.hasLayoutHandle = true
		if kind == KindText {
			t.layout.InstallMeasure(n.layoutHandle, func(availWidth int, wrap TextWrap) (int, int) {
				raw := squashChildren(t, id)
				return Measure(raw, availWidth, wrap)
			})
		}
	}
	return id
}

// CreateTextLeaf is the fatal-on-misuse constructor for raw string leaves
// (§3 invariant 2): ancestor must name a Text-bearing chain.
func (t *Tree) CreateTextLeaf(text string, insideText bool) (NodeID, error) {
	if !insideText {
		return 0, &InvariantError{Node: KindTextLeaf, Pos: "root", Msg: "text leaf created outside a text ancestor"}
	}
	id := t.CreateNode(KindTextLeaf)
	t.get(id).text = text
	return id, nil
}

// AppendChild detaches child from any existing parent, then appends it to
// parent's child list and mirrors the change into the layout tree.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.detach(child)
	p, c := t.get(parent), t.get(child)
	p.children = append(p.children, child)
	c.parent = parent
	c.hasParent = true
	if c.hasLayoutHandle && p.hasLayoutHandle {
		t.layout.AppendChild(p.layoutHandle, c.layoutHandle)
	}
}

// InsertBefore detaches child if needed, then inserts it immediately before
// ref in parent's child list, mirroring the position into the layout tree.
func (t *Tree) InsertBefore(parent, child, ref NodeID) {
	t.detach(child)
	p, c := t.get(parent), t.get(child)
	idx := indexOf(p.children, ref)
	if idx < 0 {
		p.children = append(p.children, child)
		idx = len(p.children) - 1
	} else {
		p.children = append(p.children, 0)
		copy(p.children[idx+1:], p.children[idx:len(p.children)-1])
		p.children[idx] = child
	}
	c.parent = parent
	c.hasParent = true
	if c.hasLayoutHandle && p.hasLayoutHandle {
		t.layout.InsertChildAt(p.layoutHandle, c.layoutHandle, t.layoutIndexBefore(p.children, idx))
	}
}

// RemoveChild detaches child, removes its layout handle from the parent's
// layout node, clears any measure callback, and recursively frees the
// subtree's layout handles.
func (t *Tree) RemoveChild(parent, child NodeID) {
	p, c := t.get(parent), t.get(child)
	idx := indexOf(p.children, child)
	if idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	if c.hasLayoutHandle && p.hasLayoutHandle {
		t.layout.RemoveChild(p.layoutHandle, c.layoutHandle)
	}
	c.parent = 0
	c.hasParent = false
	t.freeLayoutSubtree(child)
}

func (t *Tree) detach(child NodeID) {
	c := t.get(child)
	if c == nil || !c.hasParent {
		return
	}
	parent := c.parent
	p := t.get(parent)
	idx := indexOf(p.children, child)
	if idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	if c.hasLayoutHandle && p.hasLayoutHandle {
		t.layout.RemoveChild(p.layoutHandle, c.layoutHandle)
	}
	c.parent = 0
	c.hasParent = false
}

// freeLayoutSubtree recursively releases layout handles for child and its
// descendants, then marks the arena slots dead and recyclable (§3
// invariant 4: a layout handle is destroyed exactly once).
func (t *Tree) freeLayoutSubtree(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	for _, ch := range n.children {
		t.freeLayoutSubtree(ch)
	}
	if n.hasLayoutHandle {
		t.layout.FreeHandle(n.layoutHandle)
		n.hasLayoutHandle = false
	}
	n.live = false
	n.children = nil
	t.freeList = append(t.freeList, id)
}

// SetAttribute stores or removes (on nil value) an opaque prop. "style" and
// "children" are reserved and never land here.
func (t *Tree) SetAttribute(id NodeID, key string, value any) {
	n := t.get(id)
	if n == nil {
		return
	}
	if value == nil {
		delete(n.attributes, key)
		return
	}
	n.attributes[key] = value
}

func (t *Tree) Attribute(id NodeID, key string) (any, bool) {
	n := t.get(id)
	if n == nil {
		return nil, false
	}
	v, ok := n.attributes[key]
	return v, ok
}

// SetStyle shallow-merges patch into the node's style and pushes the result
// to the layout adapter.
func (t *Tree) SetStyle(id NodeID, patch Patch) {
	n := t.get(id)
	if n == nil {
		return
	}
	n.style = n.style.Apply(patch)
	if n.hasLayoutHandle {
		t.layout.CommitStyle(n.layoutHandle, n.style)
	}
}

func (t *Tree) Style(id NodeID) Style {
	n := t.get(id)
	if n == nil {
		return Style{}
	}
	return n.style
}

func (t *Tree) SetTransform(id NodeID, fn Transform) {
	if n := t.get(id); n != nil {
		n.transform = fn
	}
}

func (t *Tree) Transform(id NodeID) Transform {
	if n := t.get(id); n != nil {
		return n.transform
	}
	return nil
}

func (t *Tree) Kind(id NodeID) NodeKind {
	if n := t.get(id); n != nil {
		return n.kind
	}
	return KindRoot
}

func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.get(id); n != nil {
		return n.children
	}
	return nil
}

func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if n := t.get(id); n != nil {
		return n.parent, n.hasParent
	}
	return 0, false
}

func (t *Tree) SetText(id NodeID, text string) {
	if n := t.get(id); n != nil {
		n.text = text
	}
}

func (t *Tree) Text(id NodeID) string {
	if n := t.get(id); n != nil {
		return n.text
	}
	return ""
}

func (t *Tree) Computed(id NodeID) Rect {
	if n := t.get(id); n != nil {
		return n.computed
	}
	return Rect{}
}

func (t *Tree) setComputed(id NodeID, r Rect) {
	if n := t.get(id); n != nil {
		n.computed = r
	}
}

// ComputeLayout runs one layout pass rooted at root with the given
// available width (typically the terminal column count) and then copies
// every node's resulting Rect out of the layout engine (§4.C).
func (t *Tree) ComputeLayout(root NodeID, availableWidth int) {
	h, ok := t.LayoutHandleOf(root)
	if !ok {
		return
	}
	t.layout.ComputeLayout(h, availableWidth)
	t.syncComputed(root)
}

func (t *Tree) syncComputed(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	if n.hasLayoutHandle {
		n.computed = t.layout.Rect(n.layoutHandle)
	}
	for _, c := range n.children {
		t.syncComputed(c)
	}
}

// SetRootHooks installs the three commit hooks the frame driver attaches
// to the root node at construction (§4.H).
func (t *Tree) SetRootHooks(root NodeID, onComputeLayout, onRender, onImmediateRender func()) {
	n := t.get(root)
	if n == nil {
		return
	}
	n.onComputeLayout = onComputeLayout
	n.onRender = onRender
	n.onImmediateRender = onImmediateRender
}

func (t *Tree) StaticDirty(root NodeID) bool {
	if n := t.get(root); n != nil {
		return n.staticDirty
	}
	return false
}

// MarkStaticDirty sets the flag (§3 invariant 5) that sends the next
// ResetAfterCommit down the immediate-render path. The tree never sets it
// on its own: AppendChild and InsertBefore do not look for a "static"
// ancestor, so the flag is raised only by calling MarkStaticDirty.
func (t *Tree) MarkStaticDirty(root NodeID) {
	if n := t.get(root); n != nil {
		n.staticDirty = true
	}
}

func (t *Tree) LayoutHandleOf(id NodeID) (LayoutHandle, bool) {
	n := t.get(id)
	if n == nil {
		return LayoutHandle{}, false
	}
	return n.layoutHandle, n.hasLayoutHandle
}

func indexOf(list []NodeID, id NodeID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// layoutIndexBefore converts a child-list position into the corresponding
// index among siblings that actually own a layout handle (§3 invariant 3:
// the solver's child order matches the node's child list index-for-index,
// skipping children without layout handles).
func (t *Tree) layoutIndexBefore(list []NodeID, upto int) int {
	n := 0
	for i := 0; i < upto && i < len(list); i++ {
		if c := t.get(list[i]); c != nil && c.hasLayoutHandle {
			n++
		}
	}
	return n
}
