// Package report implements the report projector (C6): it turns one
// Intersections record into zero or more ReportFragments under
// (Mode, Piece, Requirement) parameters for A and each B, the same
// filter-then-project shape the teacher lineage uses when turning raw
// matches into caller-facing records.
package report

import (
	"sort"

	"github.com/quinlan-lab/bedder-go/position"
	"github.com/quinlan-lab/bedder-go/sweep"
)

// AOnlyID is the synthetic id used for a fragment that carries A with no
// B side (spec.md §4.4's "A-only fragment ... id = 0 synthetic"). A real
// B file index is always >= 0, so AOnlyID is kept disjoint from it rather
// than literally 0; see DESIGN.md for why.
const AOnlyID = -1

// DistanceUnbounded is Fragment.Distance's sentinel for "not applicable"
// (no A, or no B in the fragment).
const DistanceUnbounded int64 = -1

// Fragment is one projected output record: an optional A, zero or more Bs
// all drawn from the same source file, and that file's id.
type Fragment struct {
	A *position.Shared
	B []*position.Shared
	// ID identifies which B file these Bs came from, or AOnlyID for an
	// A-only fragment.
	ID int
}

// Distance is 0 if A overlaps any b in the fragment; otherwise the
// smallest max(A.start-b.stop, b.start-A.stop) over the fragment's Bs. It
// is DistanceUnbounded if the fragment has no A or no Bs.
func (f Fragment) Distance() int64 {
	if f.A == nil || len(f.B) == 0 {
		return DistanceUnbounded
	}
	a := f.A.Position()
	best := int64(-1)
	for i, sb := range f.B {
		d := distance(a, sb.Position())
		if i == 0 || d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	return best
}

// Report is an ordered list of Fragments: A-only fragments first (one for
// Not mode, or one per uncovered sub-interval of A for an Inverse a_piece),
// then fragments per B file index in ascending order, sweep order
// preserved within each id (spec.md §4.4's emission order).
type Report []Fragment

// CountOverlapsByID sums, per real B file id, the number of Bs across all
// of that id's fragments.
func (r Report) CountOverlapsByID() map[int]int {
	out := map[int]int{}
	for _, f := range r {
		if f.ID == AOnlyID {
			continue
		}
		out[f.ID] += len(f.B)
	}
	return out
}

// CountBasesByID sums, per real B file id, the total length of every B
// across all of that id's fragments.
func (r Report) CountBasesByID() map[int]int64 {
	out := map[int]int64{}
	for _, f := range r {
		if f.ID == AOnlyID {
			continue
		}
		for _, sb := range f.B {
			out[f.ID] += position.Len(sb.Position())
		}
	}
	return out
}

// Options configures the projector for both sides of an Intersections
// record (spec.md §3's ReportOptions).
type Options struct {
	AMode  Mode
	BMode  Mode
	APiece Piece
	BPiece Piece
	AReq   Requirement
	BReq   Requirement
}

func overlapBases(a, b position.Position) int64 {
	lo := maxInt64(a.Start(), b.Start())
	hi := minInt64(a.Stop(), b.Stop())
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func distance(a, b position.Position) int64 {
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

// unionOverlapBases computes the measure of ⋃(A ∩ bi), i.e. it does not
// double-count bases of A covered by more than one b. The source this was
// distilled from instead summed per-b overlaps directly, over-counting
// whenever two bs overlapped the same region of A; this is the fix
// SPEC_FULL.md §12 calls for.
func unionOverlapBases(a position.Position, bs []position.Position) int64 {
	type span struct{ lo, hi int64 }
	var spans []span
	for _, b := range bs {
		lo := maxInt64(a.Start(), b.Start())
		hi := minInt64(a.Stop(), b.Stop())
		if hi > lo {
			spans = append(spans, span{lo, hi})
		}
	}
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	total := int64(0)
	curLo, curHi := spans[0].lo, spans[0].hi
	for _, s := range spans[1:] {
		if s.lo <= curHi {
			if s.hi > curHi {
				curHi = s.hi
			}
			continue
		}
		total += curHi - curLo
		curLo, curHi = s.lo, s.hi
	}
	total += curHi - curLo
	return total
}

// clip returns a copy of p with its bounds narrowed to [lo, hi]. Only
// *position.Generic can be clipped in place; any other Kind is returned
// unmodified (a documented limitation: format-specific Kinds that need
// piece transforms should embed or produce a Generic).
func clip(p position.Position, lo, hi int64) position.Position {
	g, ok := p.(*position.Generic)
	if !ok {
		return p
	}
	c := g.Clone()
	c.Begin, c.End = lo, hi
	return c
}

// subtractUnion returns the 0..K sub-intervals of p that are not covered
// by the union of others, in ascending order.
func subtractUnion(p position.Position, others []position.Position) []position.Position {
	type span struct{ lo, hi int64 }
	var spans []span
	for _, o := range others {
		lo := maxInt64(p.Start(), o.Start())
		hi := minInt64(p.Stop(), o.Stop())
		if hi > lo {
			spans = append(spans, span{lo, hi})
		}
	}
	if len(spans) == 0 {
		if p.Start() < p.Stop() {
			return []position.Position{p}
		}
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.lo <= last.hi {
			if s.hi > last.hi {
				last.hi = s.hi
			}
			continue
		}
		merged = append(merged, s)
	}
	var out []position.Position
	cursor := p.Start()
	for _, m := range merged {
		if m.lo > cursor {
			out = append(out, clip(p, cursor, m.lo))
		}
		if m.hi > cursor {
			cursor = m.hi
		}
	}
	if cursor < p.Stop() {
		out = append(out, clip(p, cursor, p.Stop()))
	}
	return out
}

// pieceB projects a single retained b under bPiece, relative to a. It
// returns 0 or more shared positions (Inverse can yield several).
func pieceB(bPiece Piece, a, b position.Position) []*position.Shared {
	switch bPiece {
	case PieceNone:
		return nil
	case PieceWhole:
		return []*position.Shared{position.NewShared(b)}
	case PiecePiece:
		lo, hi := maxInt64(a.Start(), b.Start()), minInt64(a.Stop(), b.Stop())
		if hi <= lo {
			return nil
		}
		return []*position.Shared{position.NewShared(clip(b, lo, hi))}
	case PieceInverse:
		subs := subtractUnion(b, []position.Position{a})
		out := make([]*position.Shared, len(subs))
		for i, s := range subs {
			out[i] = position.NewShared(s)
		}
		return out
	default:
		return nil
	}
}

// filterByReq applies the B-side inclusion rule (spec.md §4.4): retain
// each b whose individual overlap against A satisfies req (against b's
// own length), inverted when mode is Not. mode == PerPiece is a no-op,
// since this is already per-b evaluation.
func filterByReq(a position.Position, bs []position.Position, req Requirement, mode Mode) []position.Position {
	var out []position.Position
	for _, b := range bs {
		ok := req.Satisfies(overlapBases(a, b), position.Len(b))
		if mode == Not {
			ok = !ok
		}
		if ok {
			out = append(out, b)
		}
	}
	return out
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Project turns one Intersections record into a Report under opts.
//
// The A-side requirement is evaluated per retained B-file group for
// Default mode (spec.md §4.4's literal "group g" framing), but Not and
// an Inverse a_piece are evaluated across every B file combined: both
// only ever produce A-only fragments with id AOnlyID (a single one for
// Not, one per uncovered sub-interval of A for Inverse), which only
// makes sense as a whole-A-record property rather than a per-file one.
// This divergence from evaluating a_req per group in Not/Inverse mode is
// recorded as an explicit decision in DESIGN.md.
func Project(ix *sweep.Intersections, opts Options) Report {
	a := ix.Base.Position()

	groups := map[int][]position.Position{}
	var ids []int
	var allBs []position.Position
	for _, ov := range ix.Overlapping {
		b := ov.Interval.Position()
		if _, ok := groups[ov.ID]; !ok {
			ids = append(ids, ov.ID)
		}
		groups[ov.ID] = append(groups[ov.ID], b)
		allBs = append(allBs, b)
	}
	sort.Ints(ids)

	var out Report

	switch opts.AMode {
	case Not:
		satisfied := opts.AReq.Satisfies(unionOverlapBases(a, allBs), position.Len(a))
		if !satisfied {
			out = append(out, Fragment{A: position.NewShared(a), ID: AOnlyID})
		}
		return out

	case PerPiece:
		for _, id := range ids {
			retained := filterByReq(a, groups[id], opts.BReq, opts.BMode)
			for _, b := range retained {
				if !opts.AReq.Satisfies(overlapBases(a, b), position.Len(a)) {
					continue
				}
				bFrag := pieceB(opts.BPiece, a, b)
				switch opts.APiece {
				case PieceNone:
					if len(bFrag) == 0 {
						continue
					}
					out = append(out, Fragment{B: bFrag, ID: id})
				case PieceWhole:
					out = append(out, Fragment{A: position.NewShared(a), B: bFrag, ID: id})
				case PiecePiece:
					lo, hi := maxInt64(a.Start(), b.Start()), minInt64(a.Stop(), b.Stop())
					if hi <= lo {
						continue
					}
					out = append(out, Fragment{A: position.NewShared(clip(a, lo, hi)), B: bFrag, ID: id})
				case PieceInverse:
					for _, s := range subtractUnion(a, []position.Position{b}) {
						out = append(out, Fragment{A: position.NewShared(s), ID: id})
					}
				}
			}
		}
		return out

	default: // Default
		if opts.APiece == PieceInverse {
			if !opts.AReq.Satisfies(unionOverlapBases(a, allBs), position.Len(a)) {
				return out
			}
			for _, s := range subtractUnion(a, allBs) {
				out = append(out, Fragment{A: position.NewShared(s), ID: AOnlyID})
			}
			return out
		}
		for _, id := range ids {
			raw := groups[id]
			if !opts.AReq.Satisfies(unionOverlapBases(a, raw), position.Len(a)) {
				continue
			}
			retained := filterByReq(a, raw, opts.BReq, opts.BMode)
			switch opts.APiece {
			case PieceNone:
				var bFrags []*position.Shared
				for _, b := range retained {
					bFrags = append(bFrags, pieceB(opts.BPiece, a, b)...)
				}
				if len(bFrags) == 0 {
					continue
				}
				out = append(out, Fragment{B: bFrags, ID: id})
			case PieceWhole:
				if len(retained) == 0 {
					continue
				}
				var bFrags []*position.Shared
				for _, b := range retained {
					bFrags = append(bFrags, pieceB(opts.BPiece, a, b)...)
				}
				out = append(out, Fragment{A: position.NewShared(a), B: bFrags, ID: id})
			case PiecePiece:
				for _, b := range retained {
					lo, hi := maxInt64(a.Start(), b.Start()), minInt64(a.Stop(), b.Stop())
					if hi <= lo {
						continue
					}
					bFrag := pieceB(opts.BPiece, a, b)
					out = append(out, Fragment{A: position.NewShared(clip(a, lo, hi)), B: bFrag, ID: id})
				}
			}
		}
		return out
	}
}
