package glint

import "testing"

func newTestTree() *Tree {
	return NewTree(NewLayout())
}

func TestCreateTextLeafOutsideTextIsFatal(t *testing.T) {
	tree := newTestTree()
	_, err := tree.CreateTextLeaf("oops", false)
	if err == nil {
		t.Fatal("expected an invariant error for a text leaf outside a text ancestor")
	}
	if _, ok := err.(*InvariantError); !ok {
		t.Errorf("error type = %T, want *InvariantError", err)
	}
}

func TestCreateTextLeafInsideText(t *testing.T) {
	tree := newTestTree()
	leaf, err := tree.CreateTextLeaf("hi", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text(leaf) != "hi" {
		t.Errorf("Text() = %q, want %q", tree.Text(leaf), "hi")
	}
}

func TestAppendChildDetachesFromPriorParent(t *testing.T) {
	tree := newTestTree()
	root := tree.CreateNode(KindRoot)
	a := tree.CreateNode(KindBox)
	b := tree.CreateNode(KindBox)
	child := tree.CreateNode(KindBox)

	tree.AppendChild(a, child)
	tree.AppendChild(b, child)

	if len(tree.Children(a)) != 0 {
		t.Errorf("child should have been detached from a, still has %d children", len(tree.Children(a)))
	}
	if len(tree.Children(b)) != 1 {
		t.Errorf("b should have exactly one child, has %d", len(tree.Children(b)))
	}
	parent, ok := tree.Parent(child)
	if !ok || parent != b {
		t.Errorf("Parent(child) = (%v,%v), want (%v,true)", parent, ok, b)
	}
	_ = root
}

func TestInsertBeforePreservesOrder(t *testing.T) {
	tree := newTestTree()
	parent := tree.CreateNode(KindBox)
	a := tree.CreateNode(KindBox)
	b := tree.CreateNode(KindBox)
	c := tree.CreateNode(KindBox)

	tree.AppendChild(parent, a)
	tree.AppendChild(parent, c)
	tree.InsertBefore(parent, b, c)

	got := tree.Children(parent)
	want := []NodeID{a, b, c}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("Children = %v, want %v", got, want)
		}
	}
}

// Scenario 3 (§8): reordering keyed children must not free or recreate
// layout handles.
func TestReorderPreservesLayoutHandles(t *testing.T) {
	tree := newTestTree()
	root := tree.CreateNode(KindRoot)
	a := tree.CreateNode(KindBox)
	b := tree.CreateNode(KindBox)
	tree.AppendChild(root, a)
	tree.AppendChild(root, b)

	haBefore, _ := tree.LayoutHandleOf(a)
	hbBefore, _ := tree.LayoutHandleOf(b)

	// Reorder to [b, a] via remove + insert_before, as the reconciler would.
	tree.RemoveChild(root, b)
	tree.InsertBefore(root, b, a)

	haAfter, aOk := tree.LayoutHandleOf(a)
	hbAfter, bOk := tree.LayoutHandleOf(b)
	if !aOk || !bOk {
		t.Fatal("both nodes must still carry layout handles")
	}
	if haAfter != haBefore {
		t.Errorf("a's layout handle changed: %v -> %v", haBefore, haAfter)
	}
	if hbAfter != hbBefore {
		t.Errorf("b's layout handle changed: %v -> %v", hbBefore, hbAfter)
	}
	got := tree.Children(root)
	if got[0] != b || got[1] != a {
		t.Errorf("Children(root) = %v, want [b, a]", got)
	}
}

func TestRemoveChildFreesLayoutSubtree(t *testing.T) {
	tree := newTestTree()
	root := tree.CreateNode(KindRoot)
	child := tree.CreateNode(KindBox)
	grandchild := tree.CreateNode(KindBox)
	tree.AppendChild(root, child)
	tree.AppendChild(child, grandchild)

	tree.RemoveChild(root, child)

	if _, ok := tree.LayoutHandleOf(child); ok {
		t.Error("child's layout handle should have been freed")
	}
	if _, ok := tree.LayoutHandleOf(grandchild); ok {
		t.Error("grandchild's layout handle should have been freed recursively")
	}
}

func TestSetAttributeNilRemoves(t *testing.T) {
	tree := newTestTree()
	id := tree.CreateNode(KindBox)
	tree.SetAttribute(id, "static", true)
	if v, ok := tree.Attribute(id, "static"); !ok || v != true {
		t.Fatalf("Attribute(static) = (%v,%v), want (true,true)", v, ok)
	}
	tree.SetAttribute(id, "static", nil)
	if _, ok := tree.Attribute(id, "static"); ok {
		t.Error("attribute should have been removed")
	}
}

func TestStaticDirtyLifecycle(t *testing.T) {
	tree := newTestTree()
	root := tree.CreateNode(KindRoot)
	if tree.StaticDirty(root) {
		t.Fatal("new root should not start dirty")
	}
	tree.MarkStaticDirty(root)
	if !tree.StaticDirty(root) {
		t.Fatal("MarkStaticDirty should set the flag")
	}
}

func TestLayoutIndexBeforeSkipsHandlelessSiblings(t *testing.T) {
	tree := newTestTree()
	parent := tree.CreateNode(KindText)
	virtual, _ := tree.CreateTextLeaf("x", true)
	_ = virtual
	vtext := tree.CreateNode(KindVirtualText)
	leaf, _ := tree.CreateTextLeaf("y", true)
	real := tree.CreateNode(KindTextLeaf)
	_ = real

	list := []NodeID{vtext, leaf}
	if got := tree.layoutIndexBefore(list, 2); got != 0 {
		t.Errorf("layoutIndexBefore = %d, want 0 (neither sibling owns a layout handle)", got)
	}
	_ = parent
}
