package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode selects how an overlap requirement is evaluated against a side of an
// Intersections record (spec.md §3's ReportOptions.{a,b}_mode).
type Mode int

const (
	// Default reports the side when its requirement is satisfied.
	Default Mode = iota
	// Not inverts the requirement: report when it is NOT satisfied.
	Not
	// PerPiece evaluates the requirement against each overlapping b
	// individually rather than against the union; a no-op for b_mode,
	// which is already per-b by default.
	PerPiece
)

func (m Mode) String() string {
	switch m {
	case Default:
		return "default"
	case Not:
		return "not"
	case PerPiece:
		return "per-piece"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a Mode from its String form, case-insensitively; the
// empty string means Default.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return Default, nil
	case "not":
		return Not, nil
	case "per-piece", "perpiece":
		return PerPiece, nil
	default:
		return 0, fmt.Errorf("report: unknown mode %q", s)
	}
}

// Piece selects what portion of a side is emitted into a fragment
// (spec.md §3's ReportOptions.{a,b}_piece).
type Piece int

const (
	// PieceNone omits this side from the fragment entirely.
	PieceNone Piece = iota
	// PiecePiece emits only the overlap region, clipped to the owner.
	PiecePiece
	// PieceWhole emits the original, untrimmed interval.
	PieceWhole
	// PieceInverse emits the portions of the owner that do NOT overlap
	// the other side; only meaningful for A.
	PieceInverse
)

func (p Piece) String() string {
	switch p {
	case PieceNone:
		return "none"
	case PiecePiece:
		return "piece"
	case PieceWhole:
		return "whole"
	case PieceInverse:
		return "inverse"
	default:
		return fmt.Sprintf("Piece(%d)", int(p))
	}
}

// ParsePiece parses a Piece from its String form, case-insensitively; the
// empty string means PieceNone.
func ParsePiece(s string) (Piece, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PieceNone, nil
	case "piece":
		return PiecePiece, nil
	case "whole":
		return PieceWhole, nil
	case "inverse":
		return PieceInverse, nil
	default:
		return 0, fmt.Errorf("report: unknown piece %q", s)
	}
}

type requirementKind int

const (
	reqBases requirementKind = iota
	reqFraction
)

// Requirement is a minimum overlap, either an absolute base count or a
// fraction of the owner's length (spec.md §3's Requirement = Bases(u64) |
// Fraction(f32)).
type Requirement struct {
	kind     requirementKind
	bases    int64
	fraction float64
}

// Bases builds an absolute-base-count Requirement.
func Bases(k int64) Requirement { return Requirement{kind: reqBases, bases: k} }

// Fraction builds a fraction-of-owner-length Requirement. f >= 1.0 is
// treated as "100% of owner length".
func Fraction(f float64) Requirement { return Requirement{kind: reqFraction, fraction: f} }

// Satisfies reports whether overlap (in bases) meets r against an owner of
// length ownerLen. Fraction requirements round up to the nearest base
// (spec.md §4.4's resolved ceiling decision; see DESIGN.md).
func (r Requirement) Satisfies(overlap, ownerLen int64) bool {
	switch r.kind {
	case reqBases:
		return overlap >= r.bases
	case reqFraction:
		if r.fraction >= 1.0 {
			return overlap >= ownerLen
		}
		need := int64(math.Ceil(r.fraction * float64(ownerLen)))
		return overlap >= need
	default:
		return false
	}
}

func (r Requirement) String() string {
	switch r.kind {
	case reqBases:
		return strconv.FormatInt(r.bases, 10)
	case reqFraction:
		return strconv.FormatFloat(r.fraction*100, 'g', -1, 64) + "%"
	default:
		return "?"
	}
}

// ParseRequirement parses either a bare non-negative integer (absolute
// bases, e.g. "10") or a percent-suffixed number (fraction of owner
// length, e.g. "25%" or "100%").
func ParseRequirement(s string) (Requirement, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Requirement{}, fmt.Errorf("report: invalid requirement %q: %w", s, err)
		}
		return Fraction(pct / 100.0), nil
	}
	k, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Requirement{}, fmt.Errorf("report: invalid requirement %q: %w", s, err)
	}
	if k < 0 {
		return Requirement{}, fmt.Errorf("report: invalid requirement %q: negative base count", s)
	}
	return Bases(k), nil
}
