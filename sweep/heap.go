package sweep

import (
	"container/heap"

	"github.com/quinlan-lab/bedder-go/position"
)

// heapEntry is one pending record pulled from a single B stream. file_idx is
// kept as an explicit integer (rather than a reference back to the stream)
// so the heap stores plain values and the streams live in a single indexed
// slice, the same implicit-reference pattern spec.md §9 calls out.
type heapEntry struct {
	pos      position.Position
	fileIdx  int
	chromIdx int
}

// entryHeap implements container/heap.Interface with the natural ordering
// (chromIdx asc, start asc, stop asc, fileIdx asc) so it behaves as a
// min-heap directly, rather than the reverse-ordered max-heap trick
// spec.md §9 notes the original implementation needed.
type entryHeap []heapEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.chromIdx != b.chromIdx {
		return a.chromIdx < b.chromIdx
	}
	if a.pos.Start() != b.pos.Start() {
		return a.pos.Start() < b.pos.Start()
	}
	if a.pos.Stop() != b.pos.Stop() {
		return a.pos.Stop() < b.pos.Stop()
	}
	return a.fileIdx < b.fileIdx
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// findFileIdx returns the slice index of the (at most one) heap entry for
// fileIdx, or -1 if that stream currently has no entry in the heap.
func (h entryHeap) findFileIdx(fileIdx int) int {
	for i, e := range h {
		if e.fileIdx == fileIdx {
			return i
		}
	}
	return -1
}

var _ heap.Interface = (*entryHeap)(nil)
