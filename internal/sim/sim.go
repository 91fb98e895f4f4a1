// Package sim builds synthetic virtual trees for benchmarks and the
// inspector's demo loop: keyed row tables, permutations, and text churn,
// the workloads a list-heavy UI actually produces.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/zylix-dev/zylix/pkg/vdom"
)

// Row is one keyed list entry.
type Row struct {
	Key  string
	Text string
}

// Rows generates n sequentially keyed rows.
func Rows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			Key:  fmt.Sprintf("row-%d", i),
			Text: fmt.Sprintf("item %d", i),
		}
	}
	return rows
}

// BuildTable populates tree with a header, a keyed row list, and a footer,
// and sets the root. Returns the root id, or NoNode if the tree cannot hold
// the rows.
func BuildTable(tree *vdom.VTree, rows []Row) vdom.NodeID {
	root := tree.CreateElement(vdom.TagDiv)
	if root == vdom.NoNode {
		return vdom.NoNode
	}
	tree.SetClass(root, "table")

	header := tree.CreateElement(vdom.TagHeader)
	title := tree.CreateText("rows")
	tree.AddChild(header, title)
	tree.AddChild(root, header)

	list := tree.CreateElement(vdom.TagList)
	tree.AddChild(root, list)
	for _, row := range rows {
		item := tree.CreateElement(vdom.TagListItem)
		if item == vdom.NoNode {
			return vdom.NoNode
		}
		tree.SetKey(item, row.Key)
		label := tree.CreateText(row.Text)
		if label == vdom.NoNode {
			return vdom.NoNode
		}
		tree.AddChild(item, label)
		tree.AddChild(list, item)
	}

	footer := tree.CreateElement(vdom.TagFooter)
	count := tree.CreateText(fmt.Sprintf("%d rows", len(rows)))
	tree.AddChild(footer, count)
	tree.AddChild(root, footer)

	tree.SetRoot(root)
	return root
}

// Workload produces successive generations of a row table: each step
// applies a seeded mix of permutation, text churn, insertion, and removal,
// approximating a live list view.
type Workload struct {
	rows   []Row
	step   int
	rng    *rand.Rand
	styles *vdom.StyleRegistry
}

// NewWorkload creates a workload over n rows with a deterministic seed.
func NewWorkload(n int, seed int64) *Workload {
	if n < 1 {
		n = 1
	}
	return &Workload{
		rows:   Rows(n),
		rng:    rand.New(rand.NewSource(seed)),
		styles: vdom.NewStyleRegistry(vdom.MaxChildren),
	}
}

// Step returns the current step counter.
func (w *Workload) Step() int {
	return w.step
}

// Len returns the current row count.
func (w *Workload) Len() int {
	return len(w.rows)
}

// Build populates tree with the current generation. Row items get interned
// style ids, alternating by position.
func (w *Workload) Build(tree *vdom.VTree) vdom.NodeID {
	root := BuildTable(tree, w.rows)
	if root == vdom.NoNode {
		return vdom.NoNode
	}
	w.applyStyles(tree, root)
	return root
}

func (w *Workload) applyStyles(tree *vdom.VTree, root vdom.NodeID) {
	n, ok := tree.Node(root)
	if !ok || len(n.Children) < 2 {
		return
	}
	list, ok := tree.Node(n.Children[1])
	if !ok {
		return
	}
	for i, c := range list.Children {
		item, ok := tree.Node(c)
		if !ok {
			continue
		}
		props := item.Props
		props.StyleID = w.styles.Intern(rowStyle(i))
		tree.UpdateNodeProps(c, props)
	}
}

func rowStyle(i int) string {
	if i%2 == 0 {
		return "row--even"
	}
	return "row--odd"
}

// Advance mutates the row set for the next generation.
func (w *Workload) Advance() {
	w.step++
	switch w.step % 4 {
	case 0:
		w.permute()
	case 1:
		w.churnText()
	case 2:
		w.insert()
	default:
		w.remove()
	}
}

func (w *Workload) permute() {
	if len(w.rows) < 2 {
		return
	}
	i := w.rng.Intn(len(w.rows))
	j := w.rng.Intn(len(w.rows))
	w.rows[i], w.rows[j] = w.rows[j], w.rows[i]
}

func (w *Workload) churnText() {
	if len(w.rows) == 0 {
		return
	}
	i := w.rng.Intn(len(w.rows))
	w.rows[i].Text = fmt.Sprintf("item %s step %d", w.rows[i].Key, w.step)
}

func (w *Workload) insert() {
	if len(w.rows) >= vdom.MaxChildren {
		return
	}
	row := Row{
		Key:  fmt.Sprintf("row-s%d", w.step),
		Text: fmt.Sprintf("inserted at step %d", w.step),
	}
	at := w.rng.Intn(len(w.rows) + 1)
	w.rows = append(w.rows, Row{})
	copy(w.rows[at+1:], w.rows[at:])
	w.rows[at] = row
}

func (w *Workload) remove() {
	if len(w.rows) <= 1 {
		return
	}
	at := w.rng.Intn(len(w.rows))
	w.rows = append(w.rows[:at], w.rows[at+1:]...)
}
