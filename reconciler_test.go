package glint

import "testing"

func newTestReconciler() (*Reconciler, *Tree) {
	tree := NewTree(NewLayout())
	return NewReconciler(tree), tree
}

func TestGetChildHostContextEntersText(t *testing.T) {
	r, _ := newTestReconciler()
	root := r.GetRootHostContext()
	if root.InsideText {
		t.Fatal("root host context should start outside text")
	}
	child := r.GetChildHostContext(root, "text")
	if !child.InsideText {
		t.Error("entering a text child should flip inside_text true")
	}
	grandchild := r.GetChildHostContext(child, "box")
	if !grandchild.InsideText {
		t.Error("inside_text should not clear once set on the path to a leaf")
	}
}

func TestCreateInstanceDemotesTextInsideText(t *testing.T) {
	r, tree := newTestReconciler()
	outer, err := r.CreateInstance("text", Props{}, HostContext{InsideText: false})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Kind(outer) != KindText {
		t.Errorf("top-level text got kind %v, want KindText", tree.Kind(outer))
	}

	inner, err := r.CreateInstance("text", Props{}, HostContext{InsideText: true})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Kind(inner) != KindVirtualText {
		t.Errorf("nested text got kind %v, want KindVirtualText", tree.Kind(inner))
	}
}

func TestCreateTextInstanceFailsOutsideText(t *testing.T) {
	r, _ := newTestReconciler()
	_, err := r.CreateTextInstance("oops", HostContext{InsideText: false})
	if err == nil {
		t.Fatal("expected an error for a text instance outside a text ancestor")
	}
}

func TestCreateInstanceAppliesStyleAndAttrs(t *testing.T) {
	r, tree := newTestReconciler()
	w := Points(5)
	id, err := r.CreateInstance("box", Props{
		"style": Patch{Width: &w},
		"label": "hi",
	}, HostContext{})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Style(id).Width != w {
		t.Errorf("Style(id).Width = %+v, want %+v", tree.Style(id).Width, w)
	}
	if v, ok := tree.Attribute(id, "label"); !ok || v != "hi" {
		t.Errorf("Attribute(label) = (%v,%v), want (hi,true)", v, ok)
	}
}

func TestPrepareUpdateNilWhenUnchanged(t *testing.T) {
	r, _ := newTestReconciler()
	old := Props{"foo": "bar"}
	new := Props{"foo": "bar"}
	payload, changed := r.PrepareUpdate(old, new)
	if changed || payload != nil {
		t.Errorf("PrepareUpdate with identical props = (%v,%v), want (nil,false)", payload, changed)
	}
}

func TestPrepareUpdateDetectsRemovedAndAddedKeys(t *testing.T) {
	r, _ := newTestReconciler()
	old := Props{"foo": "bar", "gone": 1}
	new := Props{"foo": "bar", "added": 2}
	payload, changed := r.PrepareUpdate(old, new)
	if !changed {
		t.Fatal("expected a change")
	}
	if v, ok := payload.Attrs["gone"]; !ok || v != nil {
		t.Errorf("Attrs[gone] = (%v,%v), want (nil,true)", v, ok)
	}
	if v, ok := payload.Attrs["added"]; !ok || v != 2 {
		t.Errorf("Attrs[added] = (%v,%v), want (2,true)", v, ok)
	}
	if _, ok := payload.Attrs["foo"]; ok {
		t.Error("unchanged key foo should not appear in the payload")
	}
}

func TestPrepareUpdateSubDiffsStyle(t *testing.T) {
	r, _ := newTestReconciler()
	w1, w2 := Points(5), Points(10)
	old := Props{"style": Patch{Width: &w1}}
	new := Props{"style": Patch{Width: &w2}}
	payload, changed := r.PrepareUpdate(old, new)
	if !changed || payload.StylePatch == nil {
		t.Fatal("expected a style patch")
	}
	if payload.StylePatch.Width == nil || *payload.StylePatch.Width != w2 {
		t.Errorf("StylePatch.Width = %v, want %v", payload.StylePatch.Width, w2)
	}
}

func TestResetAfterCommitStaticDirtyTakesPriority(t *testing.T) {
	r, tree := newTestReconciler()
	root := tree.CreateNode(KindRoot)

	var layoutCalled, renderCalled, immediateCalled bool
	tree.SetRootHooks(root,
		func() { layoutCalled = true },
		func() { renderCalled = true },
		func() { immediateCalled = true },
	)
	tree.MarkStaticDirty(root)

	r.ResetAfterCommit(root)

	if !layoutCalled {
		t.Error("on_compute_layout should always run")
	}
	if !immediateCalled {
		t.Error("static_dirty should route to on_immediate_render")
	}
	if renderCalled {
		t.Error("static_dirty should return early, skipping on_render")
	}
	if tree.StaticDirty(root) {
		t.Error("static_dirty flag should be cleared on the same commit")
	}
}

func TestResetAfterCommitCallsOnRenderWhenNotDirty(t *testing.T) {
	r, tree := newTestReconciler()
	root := tree.CreateNode(KindRoot)
	var renderCalled bool
	tree.SetRootHooks(root, func() {}, func() { renderCalled = true }, func() {})

	r.ResetAfterCommit(root)

	if !renderCalled {
		t.Error("on_render should run when static_dirty is false")
	}
}
