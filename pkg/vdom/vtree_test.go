package vdom

import (
	"strings"
	"testing"
)

func TestCreateNodeCapacityExhaustion(t *testing.T) {
	tree := NewVTreeWithCapacity(2)

	if tree.CreateElement(TagDiv) == NoNode {
		t.Fatal("first create failed")
	}
	if tree.CreateElement(TagDiv) == NoNode {
		t.Fatal("second create failed")
	}
	// Exhausted: sentinel, never a panic.
	if id := tree.CreateElement(TagDiv); id != NoNode {
		t.Errorf("create on full tree = %d, want NoNode", id)
	}
}

func TestNodeLookupMiss(t *testing.T) {
	tree := NewVTree()
	if _, ok := tree.Node(NoNode); ok {
		t.Error("Node(NoNode) should miss")
	}
	if _, ok := tree.Node(NodeID(42)); ok {
		t.Error("Node on empty tree should miss")
	}
}

func TestAddChildLimits(t *testing.T) {
	tree := NewVTree()
	parent := tree.CreateElement(TagList)

	if tree.AddChild(NodeID(99), parent) {
		t.Error("AddChild with unknown parent should fail")
	}
	if tree.AddChild(parent, NodeID(99)) {
		t.Error("AddChild with unknown child should fail")
	}

	for i := 0; i < MaxChildren; i++ {
		c := tree.CreateElement(TagListItem)
		if !tree.AddChild(parent, c) {
			t.Fatalf("AddChild %d failed below capacity", i)
		}
	}
	extra := tree.CreateElement(TagListItem)
	if tree.AddChild(parent, extra) {
		t.Error("AddChild beyond MaxChildren should fail")
	}
}

func TestStringTruncation(t *testing.T) {
	tree := NewVTree()
	id := tree.CreateText(strings.Repeat("t", MaxTextLen+100))
	n, _ := tree.Node(id)
	if len(n.Text) != MaxTextLen {
		t.Errorf("text length = %d, want %d", len(n.Text), MaxTextLen)
	}

	el := tree.CreateElement(TagDiv)
	tree.SetClass(el, strings.Repeat("c", MaxClassLen+1))
	tree.SetKey(el, strings.Repeat("k", MaxKeyLen+1))
	n, _ = tree.Node(el)
	if len(n.Props.Class) != MaxClassLen {
		t.Errorf("class length = %d, want %d", len(n.Props.Class), MaxClassLen)
	}
	if len(n.Key) != MaxKeyLen {
		t.Errorf("key length = %d, want %d", len(n.Key), MaxKeyLen)
	}
}

func TestSettersMarkDirty(t *testing.T) {
	tree := NewVTree()
	id := tree.CreateElement(TagInput)

	tree.SetText(id, "x")
	n, _ := tree.Node(id)
	if !n.Dirty {
		t.Error("SetText should mark dirty")
	}

	tree.ClearDirty(id)
	tree.SetClass(id, "cls")
	if n, _ = tree.Node(id); !n.Dirty {
		t.Error("SetClass should mark dirty")
	}

	tree.ClearDirty(id)
	tree.UpdateNodeProps(id, Props{Value: "v"})
	if n, _ = tree.Node(id); !n.Dirty {
		t.Error("UpdateNodeProps should mark dirty")
	}
}

func TestMarkSubtreeDirty(t *testing.T) {
	tree := NewVTree()
	root := tree.CreateElement(TagDiv)
	child := tree.CreateElement(TagSpan)
	grand := tree.CreateText("deep")
	tree.AddChild(root, child)
	tree.AddChild(child, grand)

	tree.MarkSubtreeDirty(root)
	for _, id := range []NodeID{root, child, grand} {
		n, _ := tree.Node(id)
		if !n.Dirty {
			t.Errorf("node %d not dirty after MarkSubtreeDirty", id)
		}
	}
}

func TestParentReverseLookup(t *testing.T) {
	tree := NewVTree()
	root := tree.CreateElement(TagDiv)
	child := tree.CreateElement(TagSpan)
	tree.AddChild(root, child)
	tree.SetRoot(root)

	if got := tree.Parent(child); got != root {
		t.Errorf("Parent(child) = %d, want %d", got, root)
	}
	if got := tree.Parent(root); got != NoNode {
		t.Errorf("Parent(root) = %d, want NoNode", got)
	}
	if got := tree.Parent(NodeID(99)); got != NoNode {
		t.Errorf("Parent(unknown) = %d, want NoNode", got)
	}
}

func TestRemoveChildShifts(t *testing.T) {
	tree := NewVTree()
	parent := tree.CreateElement(TagList)
	a := tree.CreateElement(TagListItem)
	b := tree.CreateElement(TagListItem)
	c := tree.CreateElement(TagListItem)
	tree.AddChild(parent, a)
	tree.AddChild(parent, b)
	tree.AddChild(parent, c)

	if !tree.RemoveChild(parent, b) {
		t.Fatal("RemoveChild failed")
	}
	p, _ := tree.Node(parent)
	if len(p.Children) != 2 || p.Children[0] != a || p.Children[1] != c {
		t.Errorf("children after remove = %v, want [%d %d]", p.Children, a, c)
	}
	if tree.RemoveChild(parent, b) {
		t.Error("removing an absent child should fail")
	}
}

func TestInsertChildAt(t *testing.T) {
	tree := NewVTree()
	parent := tree.CreateElement(TagList)
	a := tree.CreateElement(TagListItem)
	c := tree.CreateElement(TagListItem)
	tree.AddChild(parent, a)
	tree.AddChild(parent, c)

	b := tree.CreateElement(TagListItem)
	if !tree.InsertChildAt(parent, b, 1) {
		t.Fatal("InsertChildAt failed")
	}
	p, _ := tree.Node(parent)
	if p.Children[0] != a || p.Children[1] != b || p.Children[2] != c {
		t.Errorf("children = %v, want [%d %d %d]", p.Children, a, b, c)
	}

	// Past-the-end index appends.
	d := tree.CreateElement(TagListItem)
	if !tree.InsertChildAt(parent, d, 100) {
		t.Fatal("InsertChildAt past end failed")
	}
	p, _ = tree.Node(parent)
	if p.Children[3] != d {
		t.Error("past-the-end insert should append")
	}

	if tree.InsertChildAt(parent, d, -1) {
		t.Error("negative index should fail")
	}
}

func TestReplaceNode(t *testing.T) {
	tree := NewVTree()
	root := tree.CreateElement(TagDiv)
	oldChild := tree.CreateElement(TagSpan)
	tree.AddChild(root, oldChild)
	tree.SetRoot(root)

	newChild := tree.CreateElement(TagButton)
	if !tree.ReplaceNode(oldChild, newChild) {
		t.Fatal("ReplaceNode failed")
	}
	p, _ := tree.Node(root)
	if p.Children[0] != newChild {
		t.Errorf("child slot = %d, want %d", p.Children[0], newChild)
	}

	// Replacing the root repoints the root reference.
	newRoot := tree.CreateElement(TagDiv)
	if !tree.ReplaceNode(root, newRoot) {
		t.Fatal("root replace failed")
	}
	if tree.Root() != newRoot {
		t.Errorf("root = %d, want %d", tree.Root(), newRoot)
	}
}

func TestCloneNode(t *testing.T) {
	tree := NewVTree()
	src := tree.CreateElement(TagButton)
	tree.SetClass(src, "primary")
	tree.SetKey(src, "k")
	tree.SetText(src, "Click")
	tree.AddChild(src, tree.CreateText("nested"))
	tree.SetDOMID(src, 7)

	clone := tree.CloneNode(src)
	if clone == NoNode {
		t.Fatal("CloneNode failed")
	}
	n, _ := tree.Node(clone)
	if n.Props.Class != "primary" || n.Key != "k" || n.Text != "Click" {
		t.Error("clone did not copy content fields")
	}
	if len(n.Children) != 0 {
		t.Error("clone must not share the child list")
	}
	if n.DOMID != 0 {
		t.Error("clone must not inherit the render-target id")
	}
}

func TestResetInvalidatesOldIDs(t *testing.T) {
	tree := NewVTree()
	id := tree.CreateElement(TagDiv)
	tree.SetRoot(id)

	tree.Reset()
	if tree.Len() != 0 || tree.Root() != NoNode {
		t.Error("Reset did not empty the tree")
	}
	if _, ok := tree.Node(id); ok {
		t.Error("pre-reset id should fail lookup after Reset")
	}
}

func TestPropsEqual(t *testing.T) {
	a := Props{Class: "x", StyleID: 1, OnClick: 2, Value: "v"}
	b := a
	if !a.Equal(&b) {
		t.Error("identical props reported unequal")
	}
	b.Checked = true
	if a.Equal(&b) {
		t.Error("differing props reported equal")
	}
}
