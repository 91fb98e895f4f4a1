package vdom

// BatchPhase identifies the bucket a batch iterator is draining.
type BatchPhase uint8

const (
	PhaseRemoves BatchPhase = iota
	PhaseCreates
	PhaseUpdates
	PhaseDone
)

// String returns the string representation of the BatchPhase.
func (p BatchPhase) String() string {
	switch p {
	case PhaseRemoves:
		return "Removes"
	case PhaseCreates:
		return "Creates"
	case PhaseUpdates:
		return "Updates"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// PatchBatch is a read-only regrouping of a DiffResult's patch indices into
// remove, create, and update buckets. Relative discovery order is preserved
// within each bucket, except the remove bucket is reversed end-to-end so
// that descendant removals are issued before ancestor removals. A consumer
// therefore never touches a child whose parent is already detached.
//
// Consumers must apply removes, then creates, then updates.
type PatchBatch struct {
	result  *DiffResult
	removes []int
	creates []int
	updates []int
}

// NewPatchBatch builds the bucket view of result. The batch borrows the
// result; neither is modified afterwards.
func NewPatchBatch(result *DiffResult) *PatchBatch {
	b := &PatchBatch{result: result}
	if result == nil {
		return b
	}
	for i := 0; i < result.Len(); i++ {
		p, _ := result.At(i)
		switch p.Type {
		case PatchRemove, PatchRemoveChild:
			b.removes = append(b.removes, i)
		case PatchCreate, PatchInsertChild:
			b.creates = append(b.creates, i)
		case PatchNone:
			// no-ops are dropped from the batch view
		default:
			b.updates = append(b.updates, i)
		}
	}
	// Reverse so leaf removals precede their ancestors.
	for i, j := 0, len(b.removes)-1; i < j; i, j = i+1, j-1 {
		b.removes[i], b.removes[j] = b.removes[j], b.removes[i]
	}
	return b
}

// RemoveCount returns the size of the remove bucket.
func (b *PatchBatch) RemoveCount() int { return len(b.removes) }

// CreateCount returns the size of the create bucket.
func (b *PatchBatch) CreateCount() int { return len(b.creates) }

// UpdateCount returns the size of the update bucket.
func (b *PatchBatch) UpdateCount() int { return len(b.updates) }

// Len returns the total number of batched patches.
func (b *PatchBatch) Len() int {
	return len(b.removes) + len(b.creates) + len(b.updates)
}

// Iter returns an iterator yielding removes, then creates, then updates.
func (b *PatchBatch) Iter() *BatchIter {
	return &BatchIter{batch: b}
}

// BatchIter walks a PatchBatch phase by phase.
type BatchIter struct {
	batch *PatchBatch
	phase BatchPhase
	pos   int
}

// Phase returns the bucket the iterator is currently draining. It is valid
// to call mid-iteration.
func (it *BatchIter) Phase() BatchPhase {
	return it.phase
}

// Next returns the next patch in application order. ok is false once the
// batch is exhausted.
func (it *BatchIter) Next() (Patch, bool) {
	for it.phase != PhaseDone {
		bucket := it.bucket()
		if it.pos < len(bucket) {
			p, _ := it.batch.result.At(bucket[it.pos])
			it.pos++
			return p, true
		}
		it.phase++
		it.pos = 0
	}
	return Patch{}, false
}

func (it *BatchIter) bucket() []int {
	switch it.phase {
	case PhaseRemoves:
		return it.batch.removes
	case PhaseCreates:
		return it.batch.creates
	case PhaseUpdates:
		return it.batch.updates
	default:
		return nil
	}
}
