package sim

import (
	"context"
	"testing"

	"github.com/zylix-dev/zylix/pkg/vdom"
)

func TestBuildTableShape(t *testing.T) {
	tree := vdom.NewVTree()
	root := BuildTable(tree, Rows(5))
	if root == vdom.NoNode {
		t.Fatal("BuildTable failed")
	}
	if tree.Root() != root {
		t.Error("BuildTable must set the root")
	}

	n, _ := tree.Node(root)
	if len(n.Children) != 3 {
		t.Fatalf("root has %d children, want header/list/footer", len(n.Children))
	}
	list, _ := tree.Node(n.Children[1])
	if list.Tag != vdom.TagList || len(list.Children) != 5 {
		t.Errorf("list = tag %v with %d children, want list with 5", list.Tag, len(list.Children))
	}
	for i, c := range list.Children {
		item, _ := tree.Node(c)
		if !item.HasKey() {
			t.Errorf("row %d is unkeyed", i)
		}
	}
}

func TestWorkloadBuildSetsRowStyles(t *testing.T) {
	w := NewWorkload(4, 1)
	tree := vdom.NewVTree()
	root := w.Build(tree)
	if root == vdom.NoNode {
		t.Fatal("Build failed")
	}

	n, _ := tree.Node(root)
	list, _ := tree.Node(n.Children[1])
	even, _ := tree.Node(list.Children[0])
	odd, _ := tree.Node(list.Children[1])
	if even.Props.StyleID == 0 || odd.Props.StyleID == 0 {
		t.Fatal("row items must carry interned style ids")
	}
	if even.Props.StyleID == odd.Props.StyleID {
		t.Error("alternating rows should use distinct styles")
	}

	next, _ := tree.Node(list.Children[2])
	if next.Props.StyleID != even.Props.StyleID {
		t.Error("same-parity rows should share one interned style")
	}
}

func TestWorkloadIsDeterministic(t *testing.T) {
	a := NewWorkload(10, 7)
	b := NewWorkload(10, 7)
	for i := 0; i < 20; i++ {
		a.Advance()
		b.Advance()
	}

	ta, tb := vdom.NewVTree(), vdom.NewVTree()
	a.Build(ta)
	b.Build(tb)
	if ta.Len() != tb.Len() {
		t.Errorf("same seed diverged: %d vs %d nodes", ta.Len(), tb.Len())
	}
}

func TestWorkloadStaysWithinBounds(t *testing.T) {
	w := NewWorkload(vdom.MaxChildren-1, 1)
	for i := 0; i < 200; i++ {
		w.Advance()
		if w.Len() < 1 || w.Len() > vdom.MaxChildren {
			t.Fatalf("step %d: row count %d out of bounds", i, w.Len())
		}
	}
}

func TestWorkloadDrivesReconcilerCleanly(t *testing.T) {
	w := NewWorkload(8, 3)
	r := vdom.NewReconciler()

	for i := 0; i < 50; i++ {
		if w.Build(r.Next()) == vdom.NoNode {
			t.Fatalf("step %d: build failed", i)
		}
		result := r.Commit(context.Background())
		if result.Dropped() != 0 {
			t.Fatalf("step %d: dropped %d patches", i, result.Dropped())
		}
		w.Advance()
	}
}
