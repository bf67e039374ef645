// Package sweep implements the k-way sweep iterator (C5) that joins one
// query (A) stream against N database (B) streams via a min-heap, and the
// skip-ahead controller (C4) that uses index-based random access to cheaply
// advance a B stream past regions that cannot overlap the current or any
// future A interval.
package sweep

import (
	"container/heap"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/log"

	"github.com/quinlan-lab/bedder-go/chromorder"
	"github.com/quinlan-lab/bedder-go/iterator"
	"github.com/quinlan-lab/bedder-go/position"
)

// Intersection is one B record that overlaps (or, in closest mode, is near)
// the base interval of an Intersections record.
type Intersection struct {
	Interval *position.Shared
	// ID is the 0-based index of the originating B stream.
	ID int
}

// Intersections bundles one A record with every B record the sweep found
// relevant to it. It is created once per A record and never mutated after
// construction.
type Intersections struct {
	Base        *position.Shared
	Overlapping []Intersection
}

// Config controls the sweep's optional closest-mode and skip-ahead
// behavior. The zero Config is NOT "closest mode off": MaxDistance's
// zero value is a valid bound (0 bases away), so closest mode is active.
// Callers that want ordinary overlap-only intersection must set both
// MaxDistance and NClosest to -1 explicitly.
type Config struct {
	// MaxDistance bounds closest-mode candidates; -1 disables the bound.
	MaxDistance int64
	// NClosest bounds how many nearest candidates are kept per B stream in
	// closest mode; -1 (or 0) disables the bound, i.e. keep all candidates
	// within MaxDistance.
	NClosest int64
	// SkipEnabled turns on the skip-ahead controller.
	SkipEnabled bool
}

func (c Config) closest() bool { return c.NClosest > 0 || c.MaxDistance >= 0 }

// Iterator is the k-way sweep: one base ("A") PositionedIterator joined
// against N other ("B") PositionedIterators.
type Iterator struct {
	table  *chromorder.Table
	base   iterator.PositionedIterator
	others []iterator.PositionedIterator
	// skippers[i] is others[i] asserted to iterator.Skipper, or nil if that
	// stream doesn't support skip_to.
	skippers []iterator.Skipper

	heap    entryHeap
	dequeue []heapEntry

	prevA    position.Position
	lastOther []position.Position

	cfg Config
}

// New primes the heap by pulling one record from every B stream and
// returns a ready-to-use Iterator. Any error from a B stream's first pull
// is fatal and is returned immediately.
func New(table *chromorder.Table, base iterator.PositionedIterator, others []iterator.PositionedIterator, cfg Config) (*Iterator, error) {
	it := &Iterator{
		table:     table,
		base:      base,
		others:    others,
		skippers:  make([]iterator.Skipper, len(others)),
		lastOther: make([]position.Position, len(others)),
		cfg:       cfg,
	}
	for i, o := range others {
		if s, ok := o.(iterator.Skipper); ok {
			it.skippers[i] = s
		}
	}
	for i := range others {
		if err := it.refill(i, nil); err != nil {
			return nil, err
		}
	}
	return it, nil
}

func (it *Iterator) chromIdxOf(streamName string, p position.Position) (int, error) {
	c, ok := it.table.Resolve(p.Chrom())
	if !ok {
		return 0, &chromorder.UnknownChromosomeError{StreamName: streamName, Chrom: p.Chrom()}
	}
	return c.Index, nil
}

// comparePositions orders a and b under table's chromosome order, falling
// back to (start, stop) within the same chromosome.
func comparePositions(table *chromorder.Table, streamName string, a, b position.Position) (chromorder.Ordering, error) {
	ord, err := table.CompareChrom(streamName, a.Chrom(), b.Chrom())
	if err != nil {
		return 0, err
	}
	if ord != chromorder.Equal {
		return ord, nil
	}
	switch {
	case a.Start() < b.Start():
		return chromorder.Less, nil
	case a.Start() > b.Start():
		return chromorder.Greater, nil
	case a.Stop() < b.Stop():
		return chromorder.Less, nil
	case a.Stop() > b.Stop():
		return chromorder.Greater, nil
	default:
		return chromorder.Equal, nil
	}
}

func fmtPos(p position.Position) string {
	if p == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s:%d-%d", p.Chrom(), p.Start(), p.Stop())
}

// refill pulls the next record from others[fileIdx], validates it isn't
// out of order relative to the last record read from that same stream, and
// pushes it onto the heap. A clean end of stream is not an error.
func (it *Iterator) refill(fileIdx int, hint position.Position) error {
	name := it.others[fileIdx].Name()
	rec, err := it.others[fileIdx].Next(hint)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return wrapReaderErr(name, err)
	}
	if prev := it.lastOther[fileIdx]; prev != nil {
		ord, cerr := comparePositions(it.table, name, prev, rec)
		if cerr != nil {
			return cerr
		}
		if ord == chromorder.Greater {
			return &UnsortedError{StreamName: name, Prev: fmtPos(prev), Curr: fmtPos(rec)}
		}
	}
	it.lastOther[fileIdx] = rec
	chromIdx, err := it.chromIdxOf(name, rec)
	if err != nil {
		return err
	}
	heap.Push(&it.heap, heapEntry{pos: rec, fileIdx: fileIdx, chromIdx: chromIdx})
	return nil
}

// skipThreshold is the skip-ahead controller's implementer-defined "far
// enough behind to be worth a seek" bound (spec.md §4.3.6): the greater of
// a fixed 4KiB-equivalent-in-bases floor and twice the current A's length,
// so a seek is never triggered by noise on small, tightly-packed queries.
func skipThreshold(a position.Position) int64 {
	threshold := int64(4096)
	if l := 2 * position.Len(a); l > threshold {
		threshold = l
	}
	return threshold
}

// skipAhead implements the skip-ahead controller (C4): for every B stream
// whose current heap head is far enough behind A, it asks the stream to
// seek directly to the earliest position that could still matter and
// re-primes the heap from the new location. Streams that don't support
// Skipper, or whose SkipTo returns iterator.ErrNotSupported, are left
// alone.
func (it *Iterator) skipAhead(a position.Position, aChromIdx int) error {
	if !it.cfg.SkipEnabled {
		return nil
	}
	margin := int64(0)
	if it.cfg.closest() && it.cfg.MaxDistance >= 0 {
		margin = it.cfg.MaxDistance
	}
	target := a.Start() - margin
	if target < 0 {
		target = 0
	}
	threshold := skipThreshold(a)
	for i, skipper := range it.skippers {
		if skipper == nil {
			continue
		}
		idx := it.heap.findFileIdx(i)
		if idx < 0 {
			continue
		}
		entry := it.heap[idx]
		if entry.chromIdx > aChromIdx {
			continue
		}
		behind := entry.chromIdx < aChromIdx || target-entry.pos.Start() > threshold
		if !behind {
			continue
		}
		if err := skipper.SkipTo(a.Chrom(), target); err != nil {
			if err == iterator.ErrNotSupported {
				continue
			}
			return wrapReaderErr(it.others[i].Name(), err)
		}
		log.Debug.Printf("sweep: skip %s ahead to %s:%d (was %s)", it.others[i].Name(), a.Chrom(), target, fmtPos(entry.pos))
		heap.Remove(&it.heap, idx)
		if err := it.refill(i, a); err != nil {
			return err
		}
	}
	return nil
}

// evictDequeue drops every dequeue entry that can no longer be relevant to
// the current or any future A: entries on a chromosome A has already left
// behind, plus, in overlap mode, entries whose stop has fallen at or behind
// A's start. Closest mode relaxes the position bound by MaxDistance (when
// bounded) since an entry that no longer overlaps A may still be its
// nearest neighbor.
func (it *Iterator) evictDequeue(a position.Position, aChromIdx int) {
	closest := it.cfg.closest()
	kept := it.dequeue[:0]
	for _, e := range it.dequeue {
		keep := true
		switch {
		case e.chromIdx < aChromIdx:
			keep = false
		case closest:
			if it.cfg.MaxDistance >= 0 && e.pos.Stop()+it.cfg.MaxDistance < a.Start() {
				keep = false
			}
		default:
			if e.pos.Stop() <= a.Start() {
				keep = false
			}
		}
		if keep {
			kept = append(kept, e)
		}
	}
	it.dequeue = kept
}

// drainHeap moves every heap entry that might be relevant to A (or a
// future A, if on a later chromosome) out of the heap: cross-chromosome
// entries behind A are discarded, entries on A's chromosome within the
// applicable window are moved into the dequeue, and each pop is followed
// by a refill from the corresponding stream.
func (it *Iterator) drainHeap(a position.Position, aChromIdx int) error {
	upper := a.Stop()
	if it.cfg.closest() && it.cfg.MaxDistance >= 0 {
		upper += it.cfg.MaxDistance
	} else if it.cfg.closest() {
		upper = int64(1) << 62
	}
	for it.heap.Len() > 0 {
		top := it.heap[0]
		switch {
		case top.chromIdx < aChromIdx:
			log.Debug.Printf("sweep: discarding %s entry %s, behind A's chromosome %s", it.others[top.fileIdx].Name(), fmtPos(top.pos), a.Chrom())
			heap.Pop(&it.heap)
			if err := it.refill(top.fileIdx, a); err != nil {
				return err
			}
		case top.chromIdx == aChromIdx && top.pos.Start() < upper:
			popped := heap.Pop(&it.heap).(heapEntry)
			it.dequeue = append(it.dequeue, popped)
			if err := it.refill(popped.fileIdx, a); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// overlaps reports whether a and b overlap under the half-open convention.
// A zero-length interval (start == stop) never overlaps anything,
// including another zero-length interval at the same point (spec.md §9).
func overlaps(a, b position.Position) bool {
	if a.Start() == a.Stop() || b.Start() == b.Stop() {
		return false
	}
	return a.Start() < b.Stop() && b.Start() < a.Stop()
}

func (it *Iterator) collectOverlapping(a position.Position) []Intersection {
	var result []Intersection
	for _, e := range it.dequeue {
		if overlaps(a, e.pos) {
			result = append(result, Intersection{Interval: position.NewShared(e.pos), ID: e.fileIdx})
		}
	}
	return result
}

// distanceBetween is 0 for overlapping intervals, else
// max(a.start-b.stop, b.start-a.stop), matching spec.md §4.3.5.
func distanceBetween(a, b position.Position) int64 {
	if a.Start() < b.Stop() && b.Start() < a.Stop() {
		return 0
	}
	d1 := a.Start() - b.Stop()
	d2 := b.Start() - a.Stop()
	if d1 > d2 {
		return d1
	}
	return d2
}

type closestCandidate struct {
	pos  position.Position
	dist int64
}

func (it *Iterator) collectClosest(a position.Position, aChromIdx int) []Intersection {
	byID := map[int][]closestCandidate{}
	for _, e := range it.dequeue {
		if e.chromIdx != aChromIdx {
			continue
		}
		d := distanceBetween(a, e.pos)
		if it.cfg.MaxDistance >= 0 && d > it.cfg.MaxDistance {
			continue
		}
		byID[e.fileIdx] = append(byID[e.fileIdx], closestCandidate{pos: e.pos, dist: d})
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var result []Intersection
	for _, id := range ids {
		cands := byID[id]
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].dist != cands[j].dist {
				return cands[i].dist < cands[j].dist
			}
			return cands[i].pos.Start() < cands[j].pos.Start()
		})
		k := len(cands)
		if it.cfg.NClosest > 0 && int64(k) > it.cfg.NClosest {
			k = int(it.cfg.NClosest)
		}
		for i := 0; i < k; i++ {
			result = append(result, Intersection{Interval: position.NewShared(cands[i].pos), ID: id})
		}
	}
	return result
}

// Next produces the next Intersections record, or io.EOF once the base
// stream is exhausted. ctx is checked for cancellation once per call,
// before the next base record is read; the sweep itself never blocks
// except inside a PositionedIterator's Next/SkipTo call.
func (it *Iterator) Next(ctx context.Context) (*Intersections, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := it.base.Next(it.prevA)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, wrapReaderErr(it.base.Name(), err)
	}
	if it.prevA != nil {
		ord, cerr := comparePositions(it.table, it.base.Name(), it.prevA, a)
		if cerr != nil {
			return nil, cerr
		}
		if ord == chromorder.Greater {
			return nil, &UnsortedError{StreamName: it.base.Name(), Prev: fmtPos(it.prevA), Curr: fmtPos(a)}
		}
	}
	it.prevA = a

	aChromIdx, err := it.chromIdxOf(it.base.Name(), a)
	if err != nil {
		return nil, err
	}
	if a.Start() > a.Stop() {
		return nil, &InvariantViolationError{Detail: fmt.Sprintf("%s yielded start > stop: %s", it.base.Name(), fmtPos(a))}
	}

	if err := it.skipAhead(a, aChromIdx); err != nil {
		return nil, err
	}
	it.evictDequeue(a, aChromIdx)
	if err := it.drainHeap(a, aChromIdx); err != nil {
		return nil, err
	}

	var overlapping []Intersection
	if it.cfg.closest() {
		overlapping = it.collectClosest(a, aChromIdx)
	} else {
		overlapping = it.collectOverlapping(a)
	}

	return &Intersections{Base: position.NewShared(a), Overlapping: overlapping}, nil
}
