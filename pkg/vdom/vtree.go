package vdom

// VTree is an arena owning all VNodes of one render generation. Node ids
// are 1-based indices into the arena, so a zero id can never alias a live
// node and stale handles from a previous generation fail lookup instead of
// dangling.
//
// A VTree is not safe for concurrent use.
type VTree struct {
	nodes []VNode
	root  NodeID
	cap   int
}

// NewVTree creates a tree with the default MaxNodes capacity.
func NewVTree() *VTree {
	return NewVTreeWithCapacity(MaxNodes)
}

// NewVTreeWithCapacity creates a tree bounded to at most capacity nodes.
func NewVTreeWithCapacity(capacity int) *VTree {
	if capacity < 1 {
		capacity = 1
	}
	return &VTree{
		nodes: make([]VNode, 0, capacity),
		cap:   capacity,
	}
}

// Len returns the number of nodes created in this generation.
func (t *VTree) Len() int {
	return len(t.nodes)
}

// Cap returns the node capacity.
func (t *VTree) Cap() int {
	return t.cap
}

// Root returns the root node id, or NoNode if unset.
func (t *VTree) Root() NodeID {
	return t.root
}

// SetRoot sets the root node. Returns false if id is unknown.
func (t *VTree) SetRoot(id NodeID) bool {
	if _, ok := t.Node(id); !ok {
		return false
	}
	t.root = id
	return true
}

// CreateNode allocates a node of the given kind and tag. Returns NoNode on
// capacity exhaustion; it never panics.
func (t *VTree) CreateNode(kind NodeKind, tag Tag) NodeID {
	if len(t.nodes) >= t.cap {
		return NoNode
	}
	id := NodeID(len(t.nodes) + 1)
	t.nodes = append(t.nodes, VNode{
		ID:   id,
		Kind: kind,
		Tag:  tag,
	})
	return id
}

// CreateElement allocates an element node.
func (t *VTree) CreateElement(tag Tag) NodeID {
	return t.CreateNode(KindElement, tag)
}

// CreateText allocates a text node with the given content (truncated to
// MaxTextLen).
func (t *VTree) CreateText(text string) NodeID {
	id := t.CreateNode(KindText, TagNone)
	if id == NoNode {
		return NoNode
	}
	t.nodes[id-1].Text = clampString(text, MaxTextLen)
	return id
}

// CreateFragment allocates a fragment node.
func (t *VTree) CreateFragment() NodeID {
	return t.CreateNode(KindFragment, TagNone)
}

// CreateComponent allocates a component placeholder node.
func (t *VTree) CreateComponent() NodeID {
	return t.CreateNode(KindComponent, TagNone)
}

// Node returns a mutable pointer to the node for id. The miss case
// (unknown or zero id) reports ok=false.
func (t *VTree) Node(id NodeID) (*VNode, bool) {
	if id == NoNode || int(id) > len(t.nodes) {
		return nil, false
	}
	return &t.nodes[id-1], true
}

// NodeValue returns a copy of the node for id.
func (t *VTree) NodeValue(id NodeID) (VNode, bool) {
	n, ok := t.Node(id)
	if !ok {
		return VNode{}, false
	}
	return *n, true
}

// AddChild appends child to parent's child list. Returns false if either
// node is unknown or the parent is full.
func (t *VTree) AddChild(parent, child NodeID) bool {
	p, ok := t.Node(parent)
	if !ok {
		return false
	}
	if _, ok := t.Node(child); !ok {
		return false
	}
	if len(p.Children) >= MaxChildren {
		return false
	}
	p.Children = append(p.Children, child)
	return true
}

// RemoveChild removes child from parent's ordered child list, shifting
// later children down. Returns false if the pair is unknown or unrelated.
func (t *VTree) RemoveChild(parent, child NodeID) bool {
	p, ok := t.Node(parent)
	if !ok {
		return false
	}
	for i, c := range p.Children {
		if c == child {
			copy(p.Children[i:], p.Children[i+1:])
			p.Children = p.Children[:len(p.Children)-1]
			return true
		}
	}
	return false
}

// InsertChildAt inserts child into parent's child list at index, shifting
// later children up. An index past the end appends. Returns false if either
// node is unknown, the parent is full, or index is negative.
func (t *VTree) InsertChildAt(parent, child NodeID, index int) bool {
	p, ok := t.Node(parent)
	if !ok {
		return false
	}
	if _, ok := t.Node(child); !ok {
		return false
	}
	if len(p.Children) >= MaxChildren || index < 0 {
		return false
	}
	if index > len(p.Children) {
		index = len(p.Children)
	}
	p.Children = append(p.Children, NoNode)
	copy(p.Children[index+1:], p.Children[index:])
	p.Children[index] = child
	return true
}

// Parent returns the id of the node whose child list contains id, found by
// reverse scan over the arena. Returns NoNode for the root or unknown ids.
func (t *VTree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	for i := range t.nodes {
		for _, c := range t.nodes[i].Children {
			if c == id {
				return t.nodes[i].ID
			}
		}
	}
	return NoNode
}

// MarkDirty flags id as changed. Returns false if id is unknown.
func (t *VTree) MarkDirty(id NodeID) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Dirty = true
	return true
}

// MarkSubtreeDirty flags id and every descendant as changed.
func (t *VTree) MarkSubtreeDirty(id NodeID) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Dirty = true
	for _, c := range n.Children {
		t.MarkSubtreeDirty(c)
	}
	return true
}

// ClearDirty clears the dirty flag on id.
func (t *VTree) ClearDirty(id NodeID) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Dirty = false
	return true
}

// ClearAllDirty clears the dirty flag on every node.
func (t *VTree) ClearAllDirty() {
	for i := range t.nodes {
		t.nodes[i].Dirty = false
	}
}

// SetText replaces a node's text (truncated to MaxTextLen) and marks it
// dirty.
func (t *VTree) SetText(id NodeID, text string) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Text = clampString(text, MaxTextLen)
	n.Dirty = true
	return true
}

// UpdateNodeText is an alias for SetText kept for incremental callers.
func (t *VTree) UpdateNodeText(id NodeID, text string) bool {
	return t.SetText(id, text)
}

// SetClass replaces a node's class (truncated to MaxClassLen) and marks it
// dirty.
func (t *VTree) SetClass(id NodeID, class string) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Props.Class = clampString(class, MaxClassLen)
	n.Dirty = true
	return true
}

// UpdateNodeClass is an alias for SetClass kept for incremental callers.
func (t *VTree) UpdateNodeClass(id NodeID, class string) bool {
	return t.SetClass(id, class)
}

// SetKey sets a node's reconciliation key (truncated to MaxKeyLen).
func (t *VTree) SetKey(id NodeID, key string) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Key = clampString(key, MaxKeyLen)
	return true
}

// SetOnClick sets a node's click handler id and marks it dirty.
func (t *VTree) SetOnClick(id NodeID, handler uint32) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.Props.OnClick = handler
	n.Dirty = true
	return true
}

// UpdateNodeProps replaces a node's whole props record in place, clamping
// bounded strings, and marks it dirty.
func (t *VTree) UpdateNodeProps(id NodeID, props Props) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	props.Class = clampString(props.Class, MaxClassLen)
	props.Value = clampString(props.Value, MaxValueLen)
	n.Props = props
	n.Dirty = true
	return true
}

// SetDOMID records the render-target id assigned by the platform renderer
// after a Create patch was applied.
func (t *VTree) SetDOMID(id NodeID, domID uint32) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	n.DOMID = domID
	return true
}

// ReplaceNode swaps a subtree root for a new node: the parent's child slot
// (or the tree root) is repointed from oldID to newID. The old subtree stays
// in the arena until the generation is reset. Returns false if either id is
// unknown or oldID is not attached.
func (t *VTree) ReplaceNode(oldID, newID NodeID) bool {
	if _, ok := t.Node(oldID); !ok {
		return false
	}
	if _, ok := t.Node(newID); !ok {
		return false
	}
	if t.root == oldID {
		t.root = newID
		return true
	}
	parent := t.Parent(oldID)
	if parent == NoNode {
		return false
	}
	p, _ := t.Node(parent)
	for i, c := range p.Children {
		if c == oldID {
			p.Children[i] = newID
			return true
		}
	}
	return false
}

// CloneNode allocates a copy of id within the same tree: kind, tag, key,
// text, and props are copied; the child list, DOMID, and dirty flag are
// not. Returns NoNode if id is unknown or the arena is full.
func (t *VTree) CloneNode(id NodeID) NodeID {
	src, ok := t.NodeValue(id)
	if !ok {
		return NoNode
	}
	clone := t.CreateNode(src.Kind, src.Tag)
	if clone == NoNode {
		return NoNode
	}
	n, _ := t.Node(clone)
	n.Key = src.Key
	n.Text = src.Text
	n.Props = src.Props
	return clone
}

// Reset discards the whole generation so the arena can be rebuilt. Node ids
// from before the reset fail lookup afterwards.
func (t *VTree) Reset() {
	t.nodes = t.nodes[:0]
	t.root = NoNode
}
