// Package memindex provides a sorted, binary-searchable index over an
// in-memory run of records keyed by start position. It exists to give the
// skip-ahead controller (the sweep package's C4) something concrete to
// call index-based random access against when a stream happens to be
// backed by memory rather than a file.
//
// This is a direct adaptation of the teacher repo's
// interval/endpoint_index.go (SearchPosTypes/ExpsearchPosType), reworked
// from an endpoint-pair BED-union representation into a per-stream sorted
// index of individual record start positions.
package memindex

import "sort"

// Pos is the coordinate type used by the index. int64 matches the rest of
// this module's Position.Start()/Stop() accessors.
type Pos = int64

// SearchStarts returns the index of the first element of starts that is
// >= x, or len(starts) if none is. It is exactly sort.Search specialized
// for this package's Pos type, named to match the teacher's
// SearchPosTypes.
func SearchStarts(starts []Pos, x Pos) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] >= x })
}

// ExpSearchStarts performs the teacher's exponential search: it checks
// starts[idx], then starts[idx+1], then starts[idx+3], starts[idx+7], and
// so on, before finishing with a binary search. It is the right choice
// over SearchStarts when idx is already close to the answer, which is the
// sweep's common case: the skip target rarely jumps far past the stream's
// current position.
func ExpSearchStarts(starts []Pos, x Pos, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(starts)
	for idx < endIdx {
		if starts[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		mid := int(uint(startIdx+endIdx) >> 1)
		if starts[mid] >= x {
			endIdx = mid
		} else {
			startIdx = mid + 1
		}
	}
	return startIdx
}

// Index is a sorted-by-start record index for one chromosome's worth of
// records from a single in-memory stream. It supports seeking to the
// first record whose start is >= a target position, tracking the last
// query so a monotonically increasing sequence of seeks (the sweep's
// access pattern) stays cheap via ExpSearchStarts instead of a fresh
// binary search every time.
type Index struct {
	starts  []Pos
	lastIdx int
	lastPos Pos
	primed  bool
}

// New builds an Index over starts, which must already be sorted ascending
// (the same precondition the sweep requires of every input stream).
func New(starts []Pos) *Index {
	return &Index{starts: starts}
}

// Len returns the number of records in the index.
func (ix *Index) Len() int { return len(ix.starts) }

// Seek returns the index of the first record with start >= pos. Calls with
// non-decreasing pos reuse the previous answer as a starting point via
// ExpSearchStarts; a call with a smaller pos than the last one falls back
// to a fresh SearchStarts.
func (ix *Index) Seek(pos Pos) int {
	if !ix.primed || pos < ix.lastPos {
		idx := SearchStarts(ix.starts, pos)
		ix.lastIdx, ix.lastPos, ix.primed = idx, pos, true
		return idx
	}
	idx := ExpSearchStarts(ix.starts, pos, ix.lastIdx)
	ix.lastIdx, ix.lastPos = idx, pos
	return idx
}
