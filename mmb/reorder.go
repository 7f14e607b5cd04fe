package mmb

import "github.com/mm0-tools/mmbexport/invariant"

// Reorder assigns output-side indices to heap slots the first time they're
// visited, independent of their position in the input heap. Argument slots
// (the first nargs entries) are seeded up front via seed, since their
// output index is fixed by the binder list rather than discovered by
// traversal.
type Reorder struct {
	slots []int64 // -1 means unassigned
	idx   uint32
}

// NewReorder builds a Reorder over a heap of length heapLen, seeding the
// first nargs slots via seed(i).
func NewReorder(nargs uint32, heapLen int, seed func(uint32) uint32) *Reorder {
	invariant.Precondition(int(nargs) <= heapLen, "nargs %d exceeds heap length %d", nargs, heapLen)
	slots := make([]int64, heapLen)
	for i := range slots {
		slots[i] = -1
	}
	for i := uint32(0); i < nargs; i++ {
		slots[i] = int64(seed(i))
	}
	return &Reorder{slots: slots, idx: nargs}
}

// identityReorder is the seed function used everywhere the output argument
// order matches the input binder order, which is every call site in this
// exporter.
func identityReorder(i uint32) uint32 { return i }

// Get reports the output index assigned to heap slot i, if any.
func (r *Reorder) Get(i uint32) (uint32, bool) {
	v := r.slots[i]
	if v < 0 {
		return 0, false
	}
	return uint32(v), true
}

// Set assigns output index n to heap slot i.
func (r *Reorder) Set(i uint32, n uint32) { r.slots[i] = int64(n) }

// Next allocates and returns the next output index.
func (r *Reorder) Next() uint32 {
	n := r.idx
	r.idx++
	return n
}
