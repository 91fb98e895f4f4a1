package vdom

import "github.com/zylix-dev/zylix/internal/hashutil"

// DiffStats summarizes one diff pass.
type DiffStats struct {
	NodesCompared  int
	PatchesEmitted int
	CacheHits      uint64
	CacheMisses    uint64
}

// Differ walks an old and a new VTree and emits the ordered patch list that
// transforms the rendered output of the old generation into the new one.
// Patches are appended in pre-order discovery order; PatchBatch provides
// the application-safe regrouping.
//
// The Differ holds the verdict cache across passes; trees are per-pass
// inputs. Not safe for concurrent use.
type Differ struct {
	cache *DiffCache

	old    *VTree
	new    *VTree
	result *DiffResult
	stats  DiffStats
}

// NewDiffer creates a differ with a default-sized verdict cache.
func NewDiffer() *Differ {
	return NewDifferWithCache(NewDiffCache(DefaultDiffCacheSize))
}

// NewDifferWithCache creates a differ sharing the given verdict cache.
func NewDifferWithCache(cache *DiffCache) *Differ {
	if cache == nil {
		cache = NewDiffCache(DefaultDiffCacheSize)
	}
	return &Differ{cache: cache}
}

// Cache returns the verdict cache.
func (d *Differ) Cache() *DiffCache {
	return d.cache
}

// Stats returns the statistics of the most recent pass.
func (d *Differ) Stats() DiffStats {
	return d.stats
}

// Diff compares oldTree against newTree and returns the patch sequence.
// A nil or empty oldTree means mount: one Create per Element/Text node in
// newTree, none for fragments or component placeholders.
func (d *Differ) Diff(oldTree, newTree *VTree) *DiffResult {
	d.old = oldTree
	d.new = newTree
	d.result = NewDiffResult()
	d.stats = DiffStats{}
	hits0, misses0 := d.cache.Stats()

	if newTree == nil {
		return d.result
	}

	if oldTree == nil || oldTree.Root() == NoNode {
		d.mountSubtree(newTree.Root(), NoNode, 0, 0)
	} else {
		d.diffNode(oldTree.Root(), newTree.Root(), NoNode, 0, 0)
	}

	d.stats.PatchesEmitted = d.result.Len()
	hits1, misses1 := d.cache.Stats()
	d.stats.CacheHits = hits1 - hits0
	d.stats.CacheMisses = misses1 - misses0
	return d.result
}

// emit appends a patch; drops beyond MaxPatches are counted by the result.
func (d *Differ) emit(p Patch) {
	d.result.Append(p)
}

// mountSubtree emits Create patches for every Element/Text node under id.
// Fragments and component placeholders emit nothing themselves and forward
// the parent's identity to their children.
func (d *Differ) mountSubtree(id, parentNode NodeID, parentDOM uint32, index int) {
	n, ok := d.new.Node(id)
	if !ok {
		return
	}

	switch n.Kind {
	case KindElement, KindText:
		d.emit(Patch{
			Type:     PatchCreate,
			NodeID:   id,
			DOMID:    parentDOM,
			ParentID: uint32(parentNode),
			Index:    index,
			NewTag:   n.Tag,
			NewKind:  n.Kind,
			Props:    n.Props,
			Text:     n.Text,
		})
		// Children attach to the freshly created node; its render id does
		// not exist yet, so they reference it by node id.
		for i, c := range n.Children {
			d.mountSubtree(c, id, 0, i)
		}
	case KindFragment, KindComponent:
		for i, c := range n.Children {
			d.mountSubtree(c, parentNode, parentDOM, i)
		}
	}
}

// removeSubtree emits a Remove for the rendered root of the old subtree.
// Native removal is recursive, so one Remove per rendered root suffices;
// fragments and components have no render target and recurse instead.
func (d *Differ) removeSubtree(id NodeID) {
	n, ok := d.old.Node(id)
	if !ok {
		return
	}

	switch n.Kind {
	case KindElement, KindText:
		if n.DOMID != 0 {
			d.emit(Patch{Type: PatchRemove, NodeID: id, DOMID: n.DOMID})
			return
		}
		// Never rendered; rendered descendants still need removal.
		for _, c := range n.Children {
			d.removeSubtree(c)
		}
	case KindFragment, KindComponent:
		for _, c := range n.Children {
			d.removeSubtree(c)
		}
	}
}

// diffNode compares one old/new node pair.
func (d *Differ) diffNode(oldID, newID, parentNode NodeID, parentDOM uint32, index int) {
	if oldID == NoNode && newID == NoNode {
		return
	}
	if oldID == NoNode {
		d.mountSubtree(newID, parentNode, parentDOM, index)
		return
	}
	if newID == NoNode {
		d.removeSubtree(oldID)
		return
	}

	oldN, ok := d.old.Node(oldID)
	if !ok {
		d.mountSubtree(newID, parentNode, parentDOM, index)
		return
	}
	newN, ok := d.new.Node(newID)
	if !ok {
		d.removeSubtree(oldID)
		return
	}

	d.stats.NodesCompared++

	// A type change replaces the whole subtree. No partial reuse across
	// kinds or tags: redundant work is traded for correctness simplicity.
	if oldN.Kind != newN.Kind || (oldN.Kind == KindElement && oldN.Tag != newN.Tag) {
		d.removeSubtree(oldID)
		d.mountSubtree(newID, parentNode, parentDOM, index)
		return
	}

	oldHash := nodeContentHash(oldN)
	newHash := nodeContentHash(newN)
	if equal, _, ok := d.cache.Lookup(oldHash, newHash); ok && equal {
		// Proven equal in an earlier pass: zero patches, but the new
		// generation still inherits the render-target ids.
		d.adoptDOMIDs(oldID, newID)
		return
	}
	// A cached "not equal" verdict is informational only; the diff runs
	// normally rather than replaying patches.

	before := d.result.Len()

	switch oldN.Kind {
	case KindText:
		newN.DOMID = oldN.DOMID
		if !textEqual(oldN.Text, newN.Text) {
			d.emit(Patch{
				Type:   PatchUpdateText,
				NodeID: newID,
				DOMID:  oldN.DOMID,
				Text:   newN.Text,
			})
		}

	case KindElement:
		newN.DOMID = oldN.DOMID
		if !oldN.Props.Equal(&newN.Props) {
			d.emit(Patch{
				Type:   PatchUpdateProps,
				NodeID: newID,
				DOMID:  oldN.DOMID,
				Props:  newN.Props,
			})
		}
		if !textEqual(oldN.Text, newN.Text) {
			d.emit(Patch{
				Type:   PatchUpdateText,
				NodeID: newID,
				DOMID:  oldN.DOMID,
				Text:   newN.Text,
			})
		}
		d.diffChildren(oldID, newID, oldN.DOMID)

	case KindFragment, KindComponent:
		// No render target of their own; children belong to the nearest
		// rendered ancestor.
		d.diffChildren(oldID, newID, parentDOM)
	}

	emitted := d.result.Len() - before
	d.cache.Store(oldHash, newHash, emitted == 0, emitted)
}

// diffChildren reconciles the child lists of an old/new node pair.
// parentDOM is the render id of the nearest rendered ancestor.
func (d *Differ) diffChildren(oldID, newID NodeID, parentDOM uint32) {
	oldN, _ := d.old.Node(oldID)
	newN, _ := d.new.Node(newID)

	if hasKeyedChild(d.old, oldN.Children) || hasKeyedChild(d.new, newN.Children) {
		d.diffKeyedChildren(oldN.Children, newN.Children, newID, parentDOM)
		return
	}
	d.diffUnkeyedChildren(oldN.Children, newN.Children, newID, parentDOM)
}

// diffUnkeyedChildren aligns children by index. Reordering unkeyed children
// is not detected as a move; that is the accepted cost of positional
// matching.
func (d *Differ) diffUnkeyedChildren(oldKids, newKids []NodeID, parentNode NodeID, parentDOM uint32) {
	maxLen := len(oldKids)
	if len(newKids) > maxLen {
		maxLen = len(newKids)
	}

	for i := 0; i < maxLen; i++ {
		oldC, newC := NoNode, NoNode
		if i < len(oldKids) {
			oldC = oldKids[i]
		}
		if i < len(newKids) {
			newC = newKids[i]
		}
		d.diffNode(oldC, newC, parentNode, parentDOM, i)
	}
}

// keyedSlot tracks one old keyed child during matching.
type keyedSlot struct {
	id       NodeID
	keyHash  uint32
	oldIndex int
	consumed bool
}

// diffKeyedChildren matches new children against old ones by key identity.
// Old children are partitioned into a keyed set and an ordered unkeyed
// remainder; keyed lookups hash the key and confirm with full string
// equality as a collision guard. The first unconsumed match in old-child
// order wins, and a consumed entry is never reused. Matching runs a bounded
// linear scan: child lists are capped at MaxChildren, where a table buys
// nothing.
func (d *Differ) diffKeyedChildren(oldKids, newKids []NodeID, parentNode NodeID, parentDOM uint32) {
	var keyed []keyedSlot
	var unkeyed []keyedSlot
	for i, id := range oldKids {
		n, ok := d.old.Node(id)
		if !ok {
			continue
		}
		slot := keyedSlot{id: id, oldIndex: i}
		if n.HasKey() {
			slot.keyHash = hashutil.DJB2Chunked(n.Key)
			keyed = append(keyed, slot)
		} else {
			unkeyed = append(unkeyed, slot)
		}
	}

	nextUnkeyed := 0
	for i, newC := range newKids {
		n, ok := d.new.Node(newC)
		if !ok {
			continue
		}

		if n.HasKey() {
			kh := hashutil.DJB2Chunked(n.Key)
			matched := false
			for s := range keyed {
				if keyed[s].consumed || keyed[s].keyHash != kh {
					continue
				}
				oldN, _ := d.old.Node(keyed[s].id)
				if oldN == nil || oldN.Key != n.Key {
					continue // hash collision, keep scanning
				}
				keyed[s].consumed = true
				if keyed[s].oldIndex != i && oldN.DOMID != 0 {
					d.emit(Patch{
						Type:     PatchReorder,
						NodeID:   newC,
						DOMID:    oldN.DOMID,
						ParentID: parentDOM,
						Index:    i,
					})
				}
				d.diffNode(keyed[s].id, newC, parentNode, parentDOM, i)
				matched = true
				break
			}
			if !matched {
				d.mountSubtree(newC, parentNode, parentDOM, i)
			}
			continue
		}

		// Unkeyed new child: pair positionally with the next unconsumed
		// unkeyed old child.
		if nextUnkeyed < len(unkeyed) {
			unkeyed[nextUnkeyed].consumed = true
			d.diffNode(unkeyed[nextUnkeyed].id, newC, parentNode, parentDOM, i)
			nextUnkeyed++
		} else {
			d.mountSubtree(newC, parentNode, parentDOM, i)
		}
	}

	for _, s := range keyed {
		if !s.consumed {
			d.removeSubtree(s.id)
		}
	}
	for _, s := range unkeyed {
		if !s.consumed {
			d.removeSubtree(s.id)
		}
	}
}

// adoptDOMIDs copies render-target ids from an old subtree into a new one
// proven content-equal, so subsequent passes keep targeting the rendered
// elements.
func (d *Differ) adoptDOMIDs(oldID, newID NodeID) {
	oldN, ok := d.old.Node(oldID)
	if !ok {
		return
	}
	newN, ok := d.new.Node(newID)
	if !ok {
		return
	}
	newN.DOMID = oldN.DOMID

	n := len(oldN.Children)
	if len(newN.Children) < n {
		n = len(newN.Children)
	}
	for i := 0; i < n; i++ {
		d.adoptDOMIDs(oldN.Children[i], newN.Children[i])
	}
}

// nodeContentHash computes the structural content hash consulted by the
// verdict cache: kind, tag, text length, child count, style id, handler
// ids, text hash, class hash.
func nodeContentHash(n *VNode) uint32 {
	h := uint32(n.Kind)<<8 | uint32(n.Tag)
	h = hashutil.CombineHash(h, uint32(len(n.Text))<<16|uint32(len(n.Children)))
	h = hashutil.CombineHash(h, n.Props.StyleID)
	h = hashutil.CombineHash(h, n.Props.OnClick)
	h = hashutil.CombineHash(h, n.Props.OnInput)
	h = hashutil.CombineHash(h, n.Props.OnSubmit)
	h = hashutil.CombineHash(h, hashutil.DJB2Chunked(n.Text))
	h = hashutil.CombineHash(h, hashutil.DJB2Chunked(n.Props.Class))
	return h
}

// textEqual is a full string comparison with a length fast path.
func textEqual(a, b string) bool {
	return len(a) == len(b) && hashutil.CommonPrefix(a, b) == len(a)
}

// hasKeyedChild reports whether any child in ids carries a key.
func hasKeyedChild(t *VTree, ids []NodeID) bool {
	for _, id := range ids {
		if n, ok := t.Node(id); ok && n.HasKey() {
			return true
		}
	}
	return false
}
