package fiber

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/zylix-dev/zylix/pkg/vdom"
)

func testRenderer(opts ...RendererOption) *ConcurrentRenderer {
	opts = append(opts, WithRendererLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewConcurrentRenderer(opts...)
}

// branchingTree builds root(a(b, c), d) and returns the nodes in the
// expected pre-order visit order.
func branchingTree() (*vdom.VTree, []vdom.NodeID) {
	tree := vdom.NewVTree()
	root := tree.CreateElement(vdom.TagDiv)
	a := tree.CreateElement(vdom.TagList)
	b := tree.CreateElement(vdom.TagListItem)
	c := tree.CreateElement(vdom.TagListItem)
	d := tree.CreateText("tail")
	tree.AddChild(root, a)
	tree.AddChild(root, d)
	tree.AddChild(a, b)
	tree.AddChild(a, c)
	tree.SetRoot(root)
	return tree, []vdom.NodeID{root, a, b, c, d}
}

// chainTree builds a linear chain of depth nodes.
func chainTree(depth int) *vdom.VTree {
	tree := vdom.NewVTree()
	prev := vdom.NoNode
	for i := 0; i < depth; i++ {
		id := tree.CreateElement(vdom.TagDiv)
		if prev == vdom.NoNode {
			tree.SetRoot(id)
		} else {
			tree.AddChild(prev, id)
		}
		prev = id
	}
	return tree
}

func TestWalkVisitsTreePreOrder(t *testing.T) {
	r := testRenderer()
	tree, want := branchingTree()
	if !r.RequestRender(tree, LaneSync) {
		t.Fatal("RequestRender refused")
	}

	var order []vdom.NodeID
	for {
		id, prio, ok := r.sched.NextFiber()
		if !ok {
			break
		}
		order = append(order, r.pool.Get(id).Node)
		r.processFiber(id, prio)
	}

	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("visit %d: node %d, want %d", i, order[i], want[i])
		}
	}
}

func TestSyncRenderRunsToCompletion(t *testing.T) {
	r := testRenderer()
	tree, nodes := branchingTree()
	r.RequestRender(tree, LaneSync)

	processed, yielded := r.ProcessUntilYield()
	if yielded {
		t.Error("sync render must not yield")
	}
	if processed != len(nodes) {
		t.Errorf("processed %d fibers, want %d", processed, len(nodes))
	}
	if !r.WalkDone() {
		t.Fatal("walk should be done")
	}
	if got := r.Commit(); got != tree {
		t.Error("Commit should return the committed tree")
	}
	if r.Committed() != tree || r.InProgress() {
		t.Error("commit did not swap generations")
	}
}

func TestYieldBoundaryReenqueuesRemainder(t *testing.T) {
	r := testRenderer()
	clock := &fakeClock{t: time.Unix(0, 0), step: 400 * time.Microsecond}
	r.sched.now = clock.now

	// Deferred work runs at idle priority: 1ms budget, so the 400µs clock
	// step admits exactly two fibers per frame.
	r.RequestRender(chainTree(6), LaneDeferred)

	total := 0
	frames := 0
	for {
		processed, yielded := r.ProcessUntilYield()
		total += processed
		frames++
		if processed > 2 {
			t.Fatalf("frame %d processed %d fibers, budget admits 2", frames, processed)
		}
		if !yielded {
			break
		}
		if frames > 20 {
			t.Fatal("work loop failed to make progress")
		}
	}
	if total != 6 {
		t.Errorf("processed %d fibers across frames, want 6", total)
	}
	if !r.WalkDone() {
		t.Error("walk should be done after the final frame")
	}
}

func TestEffectsRunAfterCommitAtImmediate(t *testing.T) {
	r := testRenderer()
	tree, _ := branchingTree()
	r.RequestRender(tree, LaneSync)
	r.ProcessUntilYield()

	ran := []int{}
	r.QueueEffect(func() { ran = append(ran, 1) })
	r.QueueEffect(func() { ran = append(ran, 2) })
	if len(ran) != 0 {
		t.Fatal("effects must not run before commit")
	}

	r.Commit()
	if got := r.sched.PendingAt(PriorityImmediate); got != 2 {
		t.Fatalf("effect fibers queued at immediate = %d, want 2", got)
	}

	r.ProcessUntilYield()
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Errorf("effects ran as %v, want [1 2] in queue order", ran)
	}
}

func TestCancelRenderClearsState(t *testing.T) {
	r := testRenderer()
	tree, _ := branchingTree()
	r.RequestRender(tree, LaneTransition)
	r.QueueEffect(func() { t.Error("cancelled effect must not run") })

	r.CancelRender()
	if r.InProgress() || r.sched.Pending() != 0 {
		t.Error("cancel did not clear work-in-progress state")
	}

	// A commit after cancel schedules nothing.
	r.Commit()
	r.ProcessUntilYield()
}

func TestInterruptRules(t *testing.T) {
	r := testRenderer()
	t1, _ := branchingTree()
	t2, _ := branchingTree()

	if !r.RequestRender(t1, LaneTransition) {
		t.Fatal("initial request refused")
	}
	if r.RequestRender(t2, LaneDeferred) {
		t.Error("lower-priority request must not displace transition work")
	}
	if !r.CanInterrupt(LaneConcurrent) {
		t.Error("concurrent should be allowed to interrupt transition")
	}
	if !r.RequestRender(t2, LaneConcurrent) {
		t.Error("higher-priority request should displace transition work")
	}
	if r.Lane() != LaneConcurrent {
		t.Errorf("lane after interrupt = %v, want Concurrent", r.Lane())
	}

	// Sync work is never interruptible.
	rs := testRenderer()
	rs.RequestRender(t1, LaneSync)
	if rs.CanInterrupt(LaneConcurrent) {
		t.Error("nothing interrupts a sync lane")
	}
	if rs.RequestRender(t2, LaneConcurrent) {
		t.Error("request against a sync lane must be refused")
	}
}

func TestQueueOverflowFreesSkippedFibers(t *testing.T) {
	r := testRenderer(WithQueueCapacity(1))
	tree, nodes := branchingTree()
	if !r.RequestRender(tree, LaneSync) {
		t.Fatal("RequestRender refused")
	}

	processed := 0
	for {
		n, yielded := r.ProcessUntilYield()
		processed += n
		if !yielded {
			break
		}
	}

	// With a single queue slot the sibling occupies it during expansion, so
	// one child subtree per branch point is skipped rather than queued.
	if processed >= len(nodes) {
		t.Fatalf("processed %d of %d nodes, expected skips under a full queue", processed, len(nodes))
	}
	if got := r.pool.InUse(); got != 0 {
		t.Errorf("pool holds %d fibers after the walk, want 0", got)
	}
	if !r.WalkDone() {
		t.Error("walk should drain despite the skips")
	}
}

func TestRequestRenderRefusedWhenQueueFull(t *testing.T) {
	r := testRenderer(WithQueueCapacity(1))
	r.sched.Enqueue(FiberID(42), PrioritySync)

	tree, _ := branchingTree()
	if r.RequestRender(tree, LaneSync) {
		t.Fatal("request against a full queue should be refused")
	}
	if got := r.pool.InUse(); got != 0 {
		t.Errorf("refused request leaked %d fibers", got)
	}
	if r.InProgress() {
		t.Error("refused request left the renderer in-progress")
	}
}

func TestEffectQueueOverflowDoesNotLeak(t *testing.T) {
	r := testRenderer(WithQueueCapacity(1))

	ran := 0
	r.QueueEffect(func() { ran++ })
	r.QueueEffect(func() { ran++ })
	r.Commit()

	if got := r.sched.PendingAt(PriorityImmediate); got != 1 {
		t.Fatalf("effect fibers queued = %d, want 1 with a single slot", got)
	}
	r.ProcessUntilYield()
	if ran != 1 {
		t.Errorf("effects ran = %d, want the one that fit", ran)
	}
	if got := r.pool.InUse(); got != 0 {
		t.Errorf("dropped effect leaked %d fibers", got)
	}
}

func TestRequestRenderRejectsEmptyTree(t *testing.T) {
	r := testRenderer()
	if r.RequestRender(nil, LaneSync) {
		t.Error("nil tree accepted")
	}
	if r.RequestRender(vdom.NewVTree(), LaneSync) {
		t.Error("rootless tree accepted")
	}
}
