package iterator

import (
	"io"

	"github.com/quinlan-lab/bedder-go/chromorder"
	"github.com/quinlan-lab/bedder-go/memindex"
	"github.com/quinlan-lab/bedder-go/position"
)

// Slice is a PositionedIterator backed by an in-memory, pre-sorted slice of
// Positions. It is test/demo infrastructure, not a file-format adapter: it
// carries no BED/VCF/BAM parsing, only the minimal plumbing needed to drive
// the sweep and report packages' tests against fixture data.
//
// Slice also implements Skipper, backed by a memindex.Index built lazily
// per chromosome the first time SkipTo is asked to seek within it. This
// gives tests a concrete index-based random access implementation to
// exercise the skip-ahead controller against.
type Slice struct {
	name  string
	table *chromorder.Table
	recs  []position.Position
	pos   int

	// byChrom buckets recs by chromosome, built lazily, for SkipTo.
	byChrom map[string][]int
	indexes map[string]*memindex.Index
}

// NewSlice builds a Slice iterator named name over recs, which must already
// be sorted under table's order. table is used only to resolve SkipTo
// targets; Next does not validate order itself (the sweep does that).
func NewSlice(name string, table *chromorder.Table, recs []position.Position) *Slice {
	return &Slice{name: name, table: table, recs: recs}
}

func (s *Slice) Name() string { return s.name }

// Next returns the next Position, or io.EOF when exhausted. hint is
// ignored.
func (s *Slice) Next(hint position.Position) (position.Position, error) {
	if s.pos >= len(s.recs) {
		return nil, io.EOF
	}
	r := s.recs[s.pos]
	s.pos++
	return r, nil
}

func (s *Slice) ensureIndex(chrom string) *memindex.Index {
	if s.indexes == nil {
		s.indexes = make(map[string]*memindex.Index)
		s.byChrom = make(map[string][]int)
		for i, r := range s.recs {
			s.byChrom[r.Chrom()] = append(s.byChrom[r.Chrom()], i)
		}
	}
	if ix, ok := s.indexes[chrom]; ok {
		return ix
	}
	idxs := s.byChrom[chrom]
	starts := make([]memindex.Pos, len(idxs))
	for i, recIdx := range idxs {
		starts[i] = s.recs[recIdx].Start()
	}
	ix := memindex.New(starts)
	s.indexes[chrom] = ix
	return ix
}

// SkipTo implements Skipper: it seeks s.pos to the first remaining record
// whose (chrom, start) is >= (chrom, pos0) under table's order.
func (s *Slice) SkipTo(chrom string, pos0 int64) error {
	target, ok := s.table.Lookup(chrom)
	if !ok {
		return ErrNotSupported
	}
	// Find the first index in recs, at or after the current cursor, that
	// is on a chromosome >= target and satisfies the position bound.
	for i := s.pos; i < len(s.recs); i++ {
		c, ok := s.table.Lookup(s.recs[i].Chrom())
		if !ok || c.Index < target.Index {
			continue
		}
		if c.Index > target.Index {
			s.pos = i
			return nil
		}
		// Same chromosome: use the memindex to binary search within it
		// rather than scanning linearly.
		ix := s.ensureIndex(chrom)
		localIdxs := s.byChrom[chrom]
		localPos := ix.Seek(pos0)
		// Map the local (per-chromosome) index back to a global recs
		// index, skipping any entries already behind the cursor.
		for localPos < len(localIdxs) && localIdxs[localPos] < s.pos {
			localPos++
		}
		if localPos >= len(localIdxs) {
			s.pos = len(s.recs)
			return nil
		}
		s.pos = localIdxs[localPos]
		return nil
	}
	s.pos = len(s.recs)
	return nil
}
