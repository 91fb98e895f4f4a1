package vdom

// PatchType is the patch variant discriminant.
type PatchType uint8

const (
	PatchNone        PatchType = iota // no-op, zero value
	PatchCreate                       // create a node (subtree mount)
	PatchRemove                       // remove a rendered node
	PatchReplace                      // replace a rendered node wholesale
	PatchUpdateProps                  // replace the props record
	PatchUpdateText                   // replace text content
	PatchReorder                      // move a rendered node to a new index
	PatchInsertChild                  // attach an existing target at an index
	PatchRemoveChild                  // detach a child without destroying it
)

// String returns the string representation of the PatchType.
func (pt PatchType) String() string {
	switch pt {
	case PatchNone:
		return "None"
	case PatchCreate:
		return "Create"
	case PatchRemove:
		return "Remove"
	case PatchReplace:
		return "Replace"
	case PatchUpdateProps:
		return "UpdateProps"
	case PatchUpdateText:
		return "UpdateText"
	case PatchReorder:
		return "Reorder"
	case PatchInsertChild:
		return "InsertChild"
	case PatchRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// Patch is one mutation instruction against the rendered output. Field use
// is per-variant:
//
//   - Create: NodeID is the new node's id in the next generation; ParentID
//     is the parent's node id; DOMID carries the parent's render-target id
//     when the parent is already rendered (subtree mounted into an existing
//     element) and is zero otherwise, in which case the consumer resolves
//     the parent through the node ids of Creates it already applied; the
//     pre-order guarantee makes that lookup always succeed. Index is the
//     position in the parent's child list. NewTag, NewKind, Props, and Text
//     describe the node to create.
//   - Remove: DOMID is the render-target id to remove.
//   - Replace: DOMID is the target to replace; NewTag/NewKind/Props/Text
//     describe the replacement.
//   - UpdateProps: DOMID is the target; Props is the full new record.
//   - UpdateText: DOMID is the target; Text is the new content.
//   - Reorder: DOMID is the target; ParentID is the parent's render id and
//     Index the new position.
//   - InsertChild / RemoveChild: DOMID is the child target, ParentID the
//     parent's render id, Index the position.
//
// Once an element exists, patches reference render-target ids, never VNode
// ids.
type Patch struct {
	Type     PatchType
	NodeID   NodeID
	DOMID    uint32
	ParentID uint32
	Index    int
	NewTag   Tag
	NewKind  NodeKind
	Props    Props
	Text     string
}

// DiffResult is the bounded ordered patch sequence from one diff pass.
// Appends beyond MaxPatches are dropped and counted, never a fault.
type DiffResult struct {
	patches []Patch
	dropped int
}

// NewDiffResult creates an empty result with the full patch capacity.
func NewDiffResult() *DiffResult {
	return &DiffResult{patches: make([]Patch, 0, MaxPatches)}
}

// Append adds a patch. Returns false when the pass is already at
// MaxPatches; the patch is dropped and counted.
func (r *DiffResult) Append(p Patch) bool {
	if len(r.patches) >= MaxPatches {
		r.dropped++
		return false
	}
	r.patches = append(r.patches, p)
	return true
}

// Len returns the number of recorded patches.
func (r *DiffResult) Len() int {
	return len(r.patches)
}

// At returns the patch at index i.
func (r *DiffResult) At(i int) (Patch, bool) {
	if i < 0 || i >= len(r.patches) {
		return Patch{}, false
	}
	return r.patches[i], true
}

// Patches returns the recorded patches. The slice is owned by the result;
// treat it as read-only.
func (r *DiffResult) Patches() []Patch {
	return r.patches
}

// Dropped returns how many patches were discarded at capacity.
func (r *DiffResult) Dropped() int {
	return r.dropped
}

// Reset empties the result for reuse.
func (r *DiffResult) Reset() {
	r.patches = r.patches[:0]
	r.dropped = 0
}
